package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-dap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/philjestin/pathresolver/internal/fsutil"
	"github.com/philjestin/pathresolver/internal/launch"
	"github.com/philjestin/pathresolver/internal/logging"
	"github.com/philjestin/pathresolver/internal/resolver"
	"github.com/philjestin/pathresolver/internal/session"
	"github.com/philjestin/pathresolver/internal/vfs"
)

var envKeys = strings.NewReplacer(".", "_")

// settings mirrors what viper unmarshals from flags, env and config file.
type settings struct {
	Workspace  string   `mapstructure:"workspace" json:"workspace" yaml:"workspace"`
	Launch     string   `mapstructure:"launch" json:"launch" yaml:"launch"`
	Name       string   `mapstructure:"name" json:"name" yaml:"name"`
	ClientID   string   `mapstructure:"clientId" json:"clientId" yaml:"clientId"`
	Initialize string   `mapstructure:"initialize" json:"initialize" yaml:"initialize"`
	Set        []string `mapstructure:"set" json:"set" yaml:"set"`
	Log        struct {
		Level  string `mapstructure:"level" json:"level" yaml:"level"`
		Format string `mapstructure:"format" json:"format" yaml:"format"`
		File   string `mapstructure:"file" json:"file" yaml:"file"`
	} `mapstructure:"log" json:"log" yaml:"log"`
}

func loadSettings() (settings, error) {
	var s settings
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("config unmarshal: %w", err)
	}
	if len(setEdits) > 0 {
		s.Set = setEdits
	}
	if s.Workspace == "" {
		s.Workspace = "."
	}
	if abs, err := filepath.Abs(s.Workspace); err == nil {
		s.Workspace = filepath.Clean(abs)
	}
	return s, nil
}

// app is everything a command needs to answer lookups.
type app struct {
	settings   settings
	log        *logrus.Logger
	logCloser  io.Closer
	launchFile string
	session    *session.Manager
}

func (a *app) Close() error { return a.logCloser.Close() }

// newApp loads settings, builds the logger and the session, and loads the
// launch configuration once.
func newApp(ctx context.Context) (*app, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	log, closer, err := logging.Setup(logging.Options{Level: s.Log.Level, Format: s.Log.Format, File: s.Log.File})
	if err != nil {
		return nil, err
	}
	a := &app{settings: s, log: log, logCloser: closer}

	initArgs, err := initializeArgs(s)
	if err != nil {
		a.Close()
		return nil, err
	}
	src, path, err := launch.Open(s.Workspace, s.Launch, s.Name, s.Set)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.launchFile = path

	factory := resolver.NewFactory(initArgs, log, vfs.New(s.Workspace, log), fsutil.New())
	a.session = session.NewManager(factory, src, s.Workspace, log)
	if _, err := a.session.Reload(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// initializeArgs reads --initialize when given; --client-id overrides the
// client id it carries.
func initializeArgs(s settings) (dap.InitializeRequestArguments, error) {
	var args dap.InitializeRequestArguments
	if s.Initialize != "" {
		f, err := os.Open(s.Initialize)
		if err != nil {
			return args, fmt.Errorf("open --initialize: %w", err)
		}
		defer f.Close()
		if args, err = session.ReadInitialize(f); err != nil {
			return args, err
		}
	}
	if s.ClientID != "" {
		args.ClientID = s.ClientID
	}
	return args, nil
}
