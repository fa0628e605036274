package domain

import "github.com/shopspring/decimal"

// Windows are trailing window lengths in years, per report.
type Windows struct {
	MonthlyRevenue       int
	ProductPerformance   int
	CustomerSegmentation int
	RegionalComparison   int
	SeasonalTrend        int
	RepPerformance       int
	DataQuality          int
	Summary              int
}

// Max returns the widest window; the snapshot must cover it.
func (w Windows) Max() int {
	m := 0
	for _, y := range []int{
		w.MonthlyRevenue, w.ProductPerformance, w.CustomerSegmentation, w.RegionalComparison,
		w.SeasonalTrend, w.RepPerformance, w.DataQuality, w.Summary,
	} {
		if y > m {
			m = y
		}
	}
	return m
}

type SegmentThresholds struct {
	VIPValue      decimal.Decimal
	VIPFrequency  int64
	HighValue     decimal.Decimal
	HighFrequency int64
	RegularValue  decimal.Decimal
}

type Settings struct {
	Windows                 Windows
	ProductRevenueThreshold decimal.Decimal
	Segments                SegmentThresholds
}

func DefaultSettings() Settings {
	return Settings{
		Windows: Windows{
			MonthlyRevenue:       2,
			ProductPerformance:   1,
			CustomerSegmentation: 2,
			RegionalComparison:   1,
			SeasonalTrend:        2,
			RepPerformance:       1,
			DataQuality:          1,
			Summary:              2,
		},
		ProductRevenueThreshold: decimal.NewFromInt(1000),
		Segments: SegmentThresholds{
			VIPValue:      decimal.NewFromInt(10000),
			VIPFrequency:  10,
			HighValue:     decimal.NewFromInt(5000),
			HighFrequency: 5,
			RegularValue:  decimal.NewFromInt(1000),
		},
	}
}
