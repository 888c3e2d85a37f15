// Package darkroom is a photography portfolio server.
//
// # Overview
//
// Darkroom renders category galleries from an ImageKit media library. Each
// gallery is a grid of tiles; activating a tile opens a lightbox whose focused
// image is mirrored into the page URL, so any open photograph can be shared
// as a link and the browser back button closes the lightbox.
//
// The server consists of four parts:
//   - Image source: fetches and normalizes folder listings from the media host
//   - Gallery: the grid, the lightbox controller and the URL bridge
//   - Web UI: server-rendered pages with htmx lightbox swaps
//   - Contact relay: reCAPTCHA verification and email delivery through Resend
//
// # Architecture
//
//	┌─────────────────┐
//	│   Web UI        │
//	│  (templ/htmx)   │
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐       ┌─────────────────┐
//	│  Gallery        │◄──────┤  URL Bridge     │
//	│  (controller)   │       │  (?focus=<id>)  │
//	└────────┬────────┘       └─────────────────┘
//	         │
//	┌────────▼────────┐       ┌─────────────────┐
//	│  Image Source   │──────►│  ImageKit API   │
//	│  (normalize)    │       │  (/api/imagekit)│
//	└─────────────────┘       └─────────────────┘
//
// # Getting Started
//
//	darkroom config init
//	DR_IMAGEKIT_PRIVATE_KEY=private_xxx darkroom server
//	darkroom collection list family
//	darkroom collection walk family --steps 3
//
// Open http://localhost:8080/portfolio/family and click a photograph; the URL
// changes to /portfolio/family?focus=<id>.
package darkroom
