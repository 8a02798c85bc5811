package metrics

import (
	"time"

	"github.com/penglongli/gin-metrics/ginmetrics"
	"go.uber.org/zap"
)

const loginRequestsMetric = "webconf_login_requests_total"

// GetMonitor configures the process-wide gin-metrics monitor and registers the
// login counter exposed next to the default request metrics.
func GetMonitor(path string, slow time.Duration) *ginmetrics.Monitor {
	m := ginmetrics.GetMonitor()
	m.SetMetricPath(path)
	m.SetSlowTime(int32(slow.Seconds()))

	// used for p95, p99
	m.SetDuration([]float64{0.05, 0.1, 0.2, 0.3, 0.5, 1, 2, 5})

	if err := m.AddMetric(&ginmetrics.Metric{
		Type:        ginmetrics.Counter,
		Name:        loginRequestsMetric,
		Description: "login form submissions by outcome",
		Labels:      []string{"outcome"},
	}); err != nil {
		zap.L().Warn("Failed to register login metric", zap.Error(err))
	}

	return m
}

// LoginRecorder counts login submissions on a monitor built by GetMonitor.
type LoginRecorder struct {
	monitor *ginmetrics.Monitor
}

func NewLoginRecorder(m *ginmetrics.Monitor) *LoginRecorder {
	return &LoginRecorder{monitor: m}
}

// LoginRequested increments the counter for outcome (sent, invalid, forbidden, mail_error).
func (r *LoginRecorder) LoginRequested(outcome string) {
	if err := r.monitor.GetMetric(loginRequestsMetric).Inc([]string{outcome}); err != nil {
		zap.L().Debug("Login metric not recorded", zap.Error(err))
	}
}
