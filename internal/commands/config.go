package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"evalgo.org/darkroom/internal/config"
)

var (
	initConfigPath  string
	initConfigForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

var validateConfigCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration file",
	Long: `Load a configuration file with the environment applied and report any errors.

Examples:
  darkroom config validate configs/config.yaml
  DR_SERVER_PORT=0 darkroom config validate config.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateConfig,
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
	configCmd.AddCommand(validateConfigCmd)

	initConfigCmd.Flags().StringVarP(&initConfigPath, "output", "o", "config.yaml", "file to write")
	initConfigCmd.Flags().BoolVar(&initConfigForce, "force", false, "overwrite an existing file")
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(redacted(cfg))
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

// redacted returns a copy of c with credentials masked.
func redacted(c *config.Config) config.Config {
	out := *c
	mask := func(s *string) {
		if *s != "" {
			*s = "********"
		}
	}
	mask(&out.ImageKit.PrivateKey)
	mask(&out.Mail.APIKey)
	mask(&out.Recaptcha.SecretKey)
	return out
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if !initConfigForce {
		if _, err := os.Stat(initConfigPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", initConfigPath)
		}
	}

	if err := os.WriteFile(initConfigPath, []byte(defaultConfig), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", initConfigPath)
	return nil
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}
	loaded, err := config.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d categories, listing endpoint %s)\n",
		args[0], len(loaded.Gallery.Categories), loaded.ListingEndpoint())
	return nil
}

const defaultConfig = `# Darkroom Configuration

server:
  host: 0.0.0.0
  port: 8080
  base_url: ""
  read_timeout: 30s
  write_timeout: 30s
  shutdown_timeout: 10s
  debug: false
  static_dir: static

imagekit:
  api_url: https://api.imagekit.io
  private_key: ""   # or DR_IMAGEKIT_PRIVATE_KEY
  url_endpoint: ""   # e.g. https://ik.imagekit.io/<id>; drops images served elsewhere
  list_limit: 100
  timeout: 15s

gallery:
  site_name: Darkroom
  listing_url: ""   # empty uses this server's /api/imagekit
  focus_param: focus
  cache_ttl: 10m
  cache_size: 32
  transition_window: 500ms
  preload_cache_size: 512
  categories:
    - slug: newborn
      name: New Born
    - slug: family
      name: Family
    - slug: cakesmash
      name: Cakesmash
    - slug: fineart
      name: Fine Art
    - slug: maternity
      name: Maternity
    - slug: headshot
      name: Headshot
    - slug: graduation
      name: Graduation
    - slug: babyAndParents
      name: Baby and Parents
    - slug: awards
      name: Awards
    - slug: recent
      name: Recent

site:
  courses_folder: courses
  about:
    heading: About Me
    paragraphs:
      - A passionate portrait photographer capturing life's precious moments with artistry and grace.
    quote: ""
  packages:
    - title: Portrait Session
      highlight: Personal Branding
      price: ""
      features:
        - Professional studio lighting
        - 20+ expertly edited photos
    - title: Family Session
      highlight: Create Lasting Memories
      popular: true
      features:
        - Extended 90-minute session
        - 30+ edited photos
  team: []
  #  - name: Jane Doe
  #    role: Lead Photographer
  #    bio: ""
  #    image: https://ik.imagekit.io/<id>/team/jane.jpg

mail:
  api_url: https://api.resend.com
  api_key: ""       # or DR_MAIL_API_KEY
  from: onboarding@resend.dev
  to: ""
  timeout: 10s

recaptcha:
  verify_url: https://www.google.com/recaptcha/api/siteverify
  site_key: ""
  secret_key: ""    # or DR_RECAPTCHA_SECRET_KEY
  min_score: 0.5
  timeout: 10s

logging:
  level: info
  format: json
  output: stdout

security:
  rate_limit: 100
  contact_rate_limit: 5
  allowed_origins:
    - "*"
`
