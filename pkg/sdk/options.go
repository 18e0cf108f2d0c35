package ementa

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "memory" or "valkey"
	addrs    []string
	password string

	sessionTTL time.Duration
	maxUpload  int64

	summarizer  Summarizer
	reportTitle string
	authors     []string
	sampleRows  int
	cloudWords  int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey keeps sessions in a Valkey instance instead of process memory.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSessionTTL sets how long an idle session is kept. Default: 1h.
func WithSessionTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionTTL = ttl
	})
}

// WithMaxUpload bounds the size of files passed to Open, in bytes.
// Default: 32 MiB. 0 disables the limit.
func WithMaxUpload(n int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxUpload = n
	})
}

// WithSummarizer adds a narrative paragraph to generated reports.
func WithSummarizer(s Summarizer) Option {
	return optionFunc(func(c *clientConfig) {
		c.summarizer = s
	})
}

// WithReport overrides the report title and authorship line.
func WithReport(title string, authors ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.reportTitle = title
		c.authors = authors
	})
}

// WithReportSampleRows sets how many matched decisions the report lists (10 to 20).
func WithReportSampleRows(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.sampleRows = n
	})
}

// WithCloudWords sets how many ranked words feed the word cloud. Default: 60.
func WithCloudWords(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cloudWords = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
