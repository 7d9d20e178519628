package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ReportingConfig tunes the reporting windows used by the dashboard and the
// water usage endpoints.
type ReportingConfig struct {
	WaterSeriesMonths     int `mapstructure:"waterSeriesMonths"`
	ReportWindowMonths    int `mapstructure:"reportWindowMonths"`
	RevenueDefaultMonths  int `mapstructure:"revenueDefaultMonths"`
	RevenueMaxMonths      int `mapstructure:"revenueMaxMonths"`
	RevenueTrailingMonths int `mapstructure:"revenueTrailingMonths"`
}

func DefaultReportingConfig() ReportingConfig {
	return ReportingConfig{
		WaterSeriesMonths:     24,
		ReportWindowMonths:    6,
		RevenueDefaultMonths:  12,
		RevenueMaxMonths:      60,
		RevenueTrailingMonths: 6,
	}
}

type ReportingConfigHolder struct {
	current atomic.Value // holds ReportingConfig
}

// NewReportingConfigHolder reads reporting.yml and keeps watching it. A
// missing file falls back to DefaultReportingConfig.
func NewReportingConfigHolder(log *zap.Logger) (*ReportingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reporting")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/propertydesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PROPERTYDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return newReportingConfigHolder(v, log)
}

// NewStaticReportingConfigHolder returns a holder that never reloads.
func NewStaticReportingConfigHolder(cfg ReportingConfig) *ReportingConfigHolder {
	holder := &ReportingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func newReportingConfigHolder(v *viper.Viper, log *zap.Logger) (*ReportingConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("reporting.config")

	setReportingDefaults(v)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
	}

	cfg, err := decodeReportingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticReportingConfigHolder(cfg)
	if !watch {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeReportingConfig(v)
		if err != nil {
			log.Warn("invalid reporting config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reporting config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func (h *ReportingConfigHolder) Get() ReportingConfig {
	return h.current.Load().(ReportingConfig)
}

func setReportingDefaults(v *viper.Viper) {
	defaults := DefaultReportingConfig()
	v.SetDefault("reporting.waterSeriesMonths", defaults.WaterSeriesMonths)
	v.SetDefault("reporting.reportWindowMonths", defaults.ReportWindowMonths)
	v.SetDefault("reporting.revenueDefaultMonths", defaults.RevenueDefaultMonths)
	v.SetDefault("reporting.revenueMaxMonths", defaults.RevenueMaxMonths)
	v.SetDefault("reporting.revenueTrailingMonths", defaults.RevenueTrailingMonths)
}

func decodeReportingConfig(v *viper.Viper) (ReportingConfig, error) {
	// keys absent from the file keep their defaults
	cfg := DefaultReportingConfig()
	if err := v.UnmarshalKey("reporting", &cfg); err != nil {
		return ReportingConfig{}, err
	}
	if err := validateReportingConfig(cfg); err != nil {
		return ReportingConfig{}, err
	}
	return cfg, nil
}

func validateReportingConfig(cfg ReportingConfig) error {
	if cfg.WaterSeriesMonths < 1 {
		return fmt.Errorf("reporting.waterSeriesMonths must be positive, got %d", cfg.WaterSeriesMonths)
	}
	if cfg.ReportWindowMonths < 1 {
		return fmt.Errorf("reporting.reportWindowMonths must be positive, got %d", cfg.ReportWindowMonths)
	}
	if cfg.RevenueMaxMonths < 1 {
		return fmt.Errorf("reporting.revenueMaxMonths must be positive, got %d", cfg.RevenueMaxMonths)
	}
	if cfg.RevenueDefaultMonths < 1 || cfg.RevenueDefaultMonths > cfg.RevenueMaxMonths {
		return errors.New("reporting.revenueDefaultMonths must be between 1 and revenueMaxMonths")
	}
	if cfg.RevenueTrailingMonths < 1 {
		return fmt.Errorf("reporting.revenueTrailingMonths must be positive, got %d", cfg.RevenueTrailingMonths)
	}
	return nil
}
