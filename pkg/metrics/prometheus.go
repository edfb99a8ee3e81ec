package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultMetricsPath = "/metrics"

// Logger is the minimal logging surface needed during metric
// registration; zap's SugaredLogger satisfies it.
type Logger interface {
	Errorf(format string, v ...interface{})
}

// RequestCounterURLLabelMappingFn controls the cardinality of the "url"
// label. Map parameterized routes to their template (e.g. "/posts/:slug")
// so each route produces one time series, not one per parameter value.
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus instruments a gin engine with the standard HTTP metrics:
// request count, latency, and request/response sizes, partitioned by
// status code, method and url.
type Prometheus struct {
	reqCnt       *prometheus.CounterVec
	reqDur       *prometheus.HistogramVec
	reqSz, resSz *prometheus.SummaryVec

	router        *gin.Engine
	listenAddress string

	MetricsPath             string
	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn

	logger Logger
}

type NewPrometheusOptions struct {
	Subsystem               string
	MetricsPath             string
	ReqCntURLLabelMappingFn func(c *gin.Context) string
	Logger                  Logger
}

func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		MetricsPath: options.MetricsPath,
		logger:      options.Logger,
	}
	if p.MetricsPath == "" {
		p.MetricsPath = defaultMetricsPath
	}
	if options.ReqCntURLLabelMappingFn != nil {
		p.ReqCntURLLabelMappingFn = options.ReqCntURLLabelMappingFn
	} else {
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
			return c.Request.URL.Path
		}
	}

	p.registerMetrics(options.Subsystem)
	return p
}

// SetListenAddress exposes /metrics on its own address instead of the
// instrumented engine, keeping scrapes out of the service's access log.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
	if p.listenAddress != "" {
		p.router = gin.New()
	}
}

func (p *Prometheus) registerMetrics(subsystem string) {
	labels := []string{"code", "method", "url"}

	p.reqCnt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "req_total",
		Help:      "How many HTTP requests processed, partitioned by status code, method and url.",
	}, labels)
	p.reqDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      "req_dur_ms",
		Help:      "The HTTP request latencies in milliseconds.",
		Buckets:   HistogramBuckets,
	}, labels)
	p.reqSz = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Subsystem: subsystem,
		Name:      "req_sz_bytes",
		Help:      "The HTTP request sizes in bytes.",
	}, labels)
	p.resSz = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Subsystem: subsystem,
		Name:      "resp_sz_bytes",
		Help:      "The HTTP response sizes in bytes.",
	}, labels)

	for _, collector := range []prometheus.Collector{p.reqCnt, p.reqDur, p.reqSz, p.resSz} {
		if err := prometheus.Register(collector); err != nil {
			if p.logger != nil {
				p.logger.Errorf("metric could not be registered: %v", err)
			}
		}
	}
}

// Use attaches the middleware to e and mounts the metrics endpoint,
// either on e or on the standalone listener when one was set.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	if p.listenAddress != "" {
		p.router.GET(p.MetricsPath, gin.WrapH(promhttp.Handler()))
		go func() {
			_ = p.router.Run(p.listenAddress)
		}()
		return
	}
	e.GET(p.MetricsPath, gin.WrapH(promhttp.Handler()))
}

// HandlerFunc records the standard HTTP metrics for every request except
// metrics scrapes themselves.
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.MetricsPath {
			c.Next()
			return
		}

		start := time.Now()
		reqSz := approximateRequestSize(c)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.ReqCntURLLabelMappingFn(c)
		elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)

		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsedMs)
		p.reqSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(reqSz))
		p.resSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(c.Writer.Size()))
	}
}

func approximateRequestSize(c *gin.Context) int {
	r := c.Request
	size := len(r.Method) + len(r.Proto) + len(r.Host)
	if r.URL != nil {
		size += len(r.URL.Path)
	}
	for name, values := range r.Header {
		size += len(name)
		for _, v := range values {
			size += len(v)
		}
	}
	if r.ContentLength > 0 {
		size += int(r.ContentLength)
	}
	return size
}
