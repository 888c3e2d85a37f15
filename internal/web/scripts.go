package web

// lightboxScript re-derives page state from the #lightbox element after
// every swap, history restore and popstate: the scroll lock class, and the
// keydown listener, which is attached only while the lightbox is open.
// Replace-links replace the history entry when htmx is unavailable.
const lightboxScript = `(function () {
  var listening = false;
  function box() {
    var el = document.getElementById("lightbox");
    return el && el.hasAttribute("data-open") ? el : null;
  }
  function onKey(e) {
    var el = box();
    if (!el) return;
    var links = el.querySelectorAll("[data-keys]");
    for (var i = 0; i < links.length; i++) {
      if (links[i].getAttribute("data-keys").split(" ").indexOf(e.key) >= 0) {
        e.preventDefault();
        links[i].click();
        return;
      }
    }
  }
  function sync() {
    var open = !!box();
    document.body.classList.toggle("scroll-locked", open);
    if (open && !listening) {
      document.addEventListener("keydown", onKey);
    } else if (!open && listening) {
      document.removeEventListener("keydown", onKey);
    }
    listening = open;
  }
  document.addEventListener("click", function (e) {
    var a = e.target.closest && e.target.closest('a[data-history="replace"]');
    if (!a || window.htmx) return;
    e.preventDefault();
    location.replace(a.href);
  });
  document.addEventListener("htmx:afterSwap", sync);
  document.addEventListener("htmx:historyRestore", sync);
  window.addEventListener("popstate", function () {
    setTimeout(sync, 0);
  });
  sync();
})();`

// contactScript submits the contact form as JSON with a reCAPTCHA token.
const contactScript = `(function () {
  var form = document.getElementById("contact-form");
  if (!form) return;
  var status = form.querySelector(".contact-status");
  function send(token) {
    var body = {
      name: form.elements.name.value,
      email: form.elements.email.value,
      message: form.elements.message.value,
      token: token || ""
    };
    return fetch(form.action, {
      method: "POST",
      headers: { "Content-Type": "application/json", "Accept": "application/json" },
      body: JSON.stringify(body)
    }).then(function (res) {
      return res.json().then(function (data) {
        if (res.ok && data.success) {
          form.reset();
          status.textContent = "Thank you! Your message has been sent.";
        } else {
          status.textContent = data.error || data.message || "Something went wrong. Please try again.";
        }
      });
    });
  }
  form.addEventListener("submit", function (e) {
    e.preventDefault();
    status.textContent = "";
    var key = form.getAttribute("data-site-key");
    if (key && window.grecaptcha) {
      grecaptcha.ready(function () {
        grecaptcha.execute(key, { action: "contact" }).then(send);
      });
    } else {
      send("");
    }
  });
})();`
