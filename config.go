/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind         string
	clientBuffer int
	historyLimit int
	metrics      bool
	port         int
	prefix       string
	profile      bool
	queueSize    int
	rateBurst    int
	rateLimit    float64
	scoreTimeout time.Duration
	tlsCert      string
	tlsKey       string
	verbose      bool
	version      bool

	// client subcommands
	name   string
	server string
	width  int
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.historyLimit < 0 {
		return fmt.Errorf("invalid history limit (must be 0 or greater): %d", c.historyLimit)
	}
	if c.queueSize < 1 {
		return fmt.Errorf("invalid queue size (must be 1 or greater): %d", c.queueSize)
	}
	if c.clientBuffer < 1 {
		return fmt.Errorf("invalid client buffer (must be 1 or greater): %d", c.clientBuffer)
	}
	if c.scoreTimeout <= 0 {
		return fmt.Errorf("invalid score timeout (must be positive): %s", c.scoreTimeout)
	}
	if c.rateLimit < 0 {
		return fmt.Errorf("invalid rate limit (must be 0 or greater): %g", c.rateLimit)
	}
	if c.rateLimit > 0 && c.rateBurst < 1 {
		return fmt.Errorf("invalid rate burst (must be 1 or greater when rate limiting): %d", c.rateBurst)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// bindEnv lets every flag in fs fall back to MOODROOM_<FLAG> when unset.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MOODROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "moodroom",
		Short:         "A single-room chat server that tags every message with its mood.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(cfg.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: MOODROOM_BIND)")
	fs.IntVar(&cfg.clientBuffer, "client-buffer", 64, "events buffered per subscriber before it is dropped (env: MOODROOM_CLIENT_BUFFER)")
	fs.IntVar(&cfg.historyLimit, "history-limit", 0, "maximum messages kept in the room, 0 for unlimited (env: MOODROOM_HISTORY_LIMIT)")
	fs.BoolVar(&cfg.metrics, "metrics", false, "serve prometheus metrics at /metrics (env: MOODROOM_METRICS)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: MOODROOM_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: MOODROOM_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: MOODROOM_PROFILE)")
	fs.IntVar(&cfg.queueSize, "queue-size", 256, "messages queued for broadcast before publishers wait (env: MOODROOM_QUEUE_SIZE)")
	fs.IntVar(&cfg.rateBurst, "rate-burst", 10, "burst size for --rate-limit (env: MOODROOM_RATE_BURST)")
	fs.Float64Var(&cfg.rateLimit, "rate-limit", 0, "accepted submissions per second across the room, 0 for unlimited (env: MOODROOM_RATE_LIMIT)")
	fs.DurationVar(&cfg.scoreTimeout, "score-timeout", 250*time.Millisecond, "time allowed for sentiment scoring before falling back to neutral (env: MOODROOM_SCORE_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: MOODROOM_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: MOODROOM_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: MOODROOM_VERSION)")

	cmd.PersistentFlags().BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: MOODROOM_VERBOSE)")

	bindEnv(v, fs)
	bindEnv(v, cmd.PersistentFlags())

	cmd.AddCommand(newWatchCmd(cfg, v), newSendCmd(cfg, v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("moodroom v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func clientFlags(cfg *Config, v *viper.Viper, fs *pflag.FlagSet) {
	fs.StringVarP(&cfg.name, "name", "n", "", "display name to post as, empty posts anonymously (env: MOODROOM_NAME)")
	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8080", "base URL of the moodroom server (env: MOODROOM_SERVER)")

	bindEnv(v, fs)
}

func newWatchCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the room in the terminal; lines typed on stdin are posted",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchRoom(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&cfg.width, "width", "w", 0, "render width, 0 to detect from the terminal (env: MOODROOM_WIDTH)")
	clientFlags(cfg, v, cmd.Flags())

	return cmd
}

func newSendCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send TEXT...",
		Short: "Post a single message to the room",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postMessage(cmd.Context(), cfg, strings.Join(args, " "))
		},
	}

	clientFlags(cfg, v, cmd.Flags())

	return cmd
}
