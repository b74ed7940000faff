package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/container/billyfs"
	"github.com/robert-malhotra/go-vfile/container/bolt"
	"github.com/robert-malhotra/go-vfile/vfile"
)

// Config holds the resolved settings of one invocation.
type Config struct {
	Container   string `mapstructure:"container"`
	Backend     string `mapstructure:"backend"`
	Compression string `mapstructure:"compression"`
	LogLevel    string `mapstructure:"log-level"`
}

var (
	cfg    Config
	logger = logrus.New()
)

func loadConfig(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix("VFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg = Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	return nil
}

// openContainer opens the configured container. Commands that only inspect
// pass readOnly so that bolt allows concurrent readers.
func openContainer(readOnly bool) (container.Container, error) {
	log := logger.WithField("container", cfg.Container)
	switch cfg.Backend {
	case "bolt":
		opts := []bolt.Option{
			bolt.WithLogger(log),
			bolt.WithCompression(cfg.Compression, 0),
		}
		if readOnly {
			opts = append(opts, bolt.WithReadOnly())
		}
		return bolt.Open(cfg.Container, opts...)

	case "dir":
		if err := os.MkdirAll(cfg.Container, 0o755); err != nil {
			return nil, err
		}
		opts := []billyfs.Option{billyfs.WithLogger(log)}
		if readOnly {
			opts = append(opts, billyfs.WithReadOnly())
		}
		return billyfs.New(osfs.New(cfg.Container), opts...), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// withContainer runs fn on the configured container and closes it.
func withContainer(readOnly bool, fn func(c container.Container) error) (err error) {
	c, err := openContainer(readOnly)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(c)
}

func vfileOptions() []vfile.Option {
	return []vfile.Option{vfile.WithLogger(logger)}
}
