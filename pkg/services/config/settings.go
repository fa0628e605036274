package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const EnvPrefix = "SALES_ATLAS"

type WindowsConfig struct {
	MonthlyRevenue       int `mapstructure:"monthly_revenue"`
	ProductPerformance   int `mapstructure:"product_performance"`
	CustomerSegmentation int `mapstructure:"customer_segmentation"`
	RegionalComparison   int `mapstructure:"regional_comparison"`
	SeasonalTrend        int `mapstructure:"seasonal_trend"`
	RepPerformance       int `mapstructure:"rep_performance"`
	DataQuality          int `mapstructure:"data_quality"`
	Summary              int `mapstructure:"summary"`
}

type SegmentsConfig struct {
	VIPValue      string `mapstructure:"vip_value"`
	VIPFrequency  int64  `mapstructure:"vip_frequency"`
	HighValue     string `mapstructure:"high_value"`
	HighFrequency int64  `mapstructure:"high_frequency"`
	RegularValue  string `mapstructure:"regular_value"`
}

type WarehouseConfig struct {
	DbPath  string `mapstructure:"db_path"`
	Threads int    `mapstructure:"threads"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type ExportConfig struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
	Prefix string `mapstructure:"prefix"`
}

type AppConfig struct {
	Windows                 WindowsConfig   `mapstructure:"windows"`
	ProductRevenueThreshold string          `mapstructure:"product_revenue_threshold"`
	Segments                SegmentsConfig  `mapstructure:"segments"`
	Warehouse               WarehouseConfig `mapstructure:"warehouse"`
	Server                  ServerConfig    `mapstructure:"server"`
	Export                  ExportConfig    `mapstructure:"export"`
}

func setDefaults(v *viper.Viper) {
	d := domain.DefaultSettings()

	v.SetDefault("windows.monthly_revenue", d.Windows.MonthlyRevenue)
	v.SetDefault("windows.product_performance", d.Windows.ProductPerformance)
	v.SetDefault("windows.customer_segmentation", d.Windows.CustomerSegmentation)
	v.SetDefault("windows.regional_comparison", d.Windows.RegionalComparison)
	v.SetDefault("windows.seasonal_trend", d.Windows.SeasonalTrend)
	v.SetDefault("windows.rep_performance", d.Windows.RepPerformance)
	v.SetDefault("windows.data_quality", d.Windows.DataQuality)
	v.SetDefault("windows.summary", d.Windows.Summary)

	v.SetDefault("product_revenue_threshold", d.ProductRevenueThreshold.String())
	v.SetDefault("segments.vip_value", d.Segments.VIPValue.String())
	v.SetDefault("segments.vip_frequency", d.Segments.VIPFrequency)
	v.SetDefault("segments.high_value", d.Segments.HighValue.String())
	v.SetDefault("segments.high_frequency", d.Segments.HighFrequency)
	v.SetDefault("segments.regular_value", d.Segments.RegularValue.String())

	v.SetDefault("warehouse.db_path", "sales-atlas.db")
	v.SetDefault("warehouse.threads", 4)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.region", "")
	v.SetDefault("export.prefix", "reports/")
}

// LoadConfig reads the YAML settings at path. An empty path yields the
// defaults. Every key can be overridden from the environment, e.g.
// SALES_ATLAS_WINDOWS_SUMMARY=3.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &cfg, nil
}

// Settings converts the loaded config into the report settings.
func (c *AppConfig) Settings() (domain.Settings, error) {
	amounts := map[string]string{
		"product_revenue_threshold": c.ProductRevenueThreshold,
		"segments.vip_value":        c.Segments.VIPValue,
		"segments.high_value":       c.Segments.HighValue,
		"segments.regular_value":    c.Segments.RegularValue,
	}
	parsed := make(map[string]decimal.Decimal, len(amounts))
	for key, raw := range amounts {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("invalid %s %q: %w", key, raw, err)
		}
		parsed[key] = d
	}

	w := c.Windows
	for key, years := range map[string]int{
		"monthly_revenue":       w.MonthlyRevenue,
		"product_performance":   w.ProductPerformance,
		"customer_segmentation": w.CustomerSegmentation,
		"regional_comparison":   w.RegionalComparison,
		"seasonal_trend":        w.SeasonalTrend,
		"rep_performance":       w.RepPerformance,
		"data_quality":          w.DataQuality,
		"summary":               w.Summary,
	} {
		if years <= 0 {
			return domain.Settings{}, fmt.Errorf("invalid window windows.%s: %d years", key, years)
		}
	}

	return domain.Settings{
		Windows: domain.Windows{
			MonthlyRevenue:       w.MonthlyRevenue,
			ProductPerformance:   w.ProductPerformance,
			CustomerSegmentation: w.CustomerSegmentation,
			RegionalComparison:   w.RegionalComparison,
			SeasonalTrend:        w.SeasonalTrend,
			RepPerformance:       w.RepPerformance,
			DataQuality:          w.DataQuality,
			Summary:              w.Summary,
		},
		ProductRevenueThreshold: parsed["product_revenue_threshold"],
		Segments: domain.SegmentThresholds{
			VIPValue:      parsed["segments.vip_value"],
			VIPFrequency:  c.Segments.VIPFrequency,
			HighValue:     parsed["segments.high_value"],
			HighFrequency: c.Segments.HighFrequency,
			RegularValue:  parsed["segments.regular_value"],
		},
	}, nil
}
