package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/oak/sentiment-widget/internal/config"
	"github.com/oak/sentiment-widget/internal/logger"
	"github.com/oak/sentiment-widget/internal/metrics"
	"github.com/oak/sentiment-widget/internal/sentiment"
	"github.com/oak/sentiment-widget/internal/widget"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Server exposes the widget state and its actions over HTTP
// Server 通过 HTTP 暴露组件状态和操作
type Server struct {
	config     *config.Config
	logger     *logger.ColorLogger
	controller *widget.Controller
	refresh    *rate.Limiter
	hertz      *server.Hertz
}

// NewServer creates a new web server
// NewServer 创建新的 Web 服务器
func NewServer(cfg *config.Config, log *logger.ColorLogger, controller *widget.Controller) *Server {
	h := server.Default(server.WithHostPorts(fmt.Sprintf(":%d", cfg.WebPort)))

	perMin := cfg.RefreshRatePerMin
	if perMin <= 0 {
		perMin = 1
	}

	s := &Server{
		config:     cfg,
		logger:     log,
		controller: controller,
		refresh:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin),
		hertz:      h,
	}

	s.setupRoutes()

	return s
}

// setupRoutes configures all HTTP routes
// setupRoutes 配置所有 HTTP 路由
func (s *Server) setupRoutes() {
	s.hertz.GET("/health", s.handleHealth)
	s.hertz.GET("/metrics", adaptor.HertzHandler(promhttp.Handler()))

	s.hertz.GET("/api/sentiment", s.handleSentiment)
	s.hertz.GET("/api/series", s.handleSeries)
	s.hertz.POST("/api/timeframe/:period", s.handleTimeframe)
	s.hertz.POST("/api/refresh", s.handleRefresh)
}

// handleSentiment returns the full view: loading, error, current record and series
// handleSentiment 返回完整视图
func (s *Server) handleSentiment(ctx context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, s.controller.View())
}

// handleSeries returns the chart series only
func (s *Server) handleSeries(ctx context.Context, c *app.RequestContext) {
	series := s.controller.View().Series
	c.JSON(http.StatusOK, utils.H{
		"series": series,
		"count":  len(series),
	})
}

// handleTimeframe switches the selected timeframe and fetches it
// handleTimeframe 切换时间周期并获取数据
func (s *Server) handleTimeframe(ctx context.Context, c *app.RequestContext) {
	period, err := sentiment.ParsePeriod(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	res, err := s.controller.SelectPeriod(ctx, period)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sentiment.ErrUnknownPeriod) {
			status = http.StatusBadRequest
		}
		c.JSON(status, utils.H{"error": err.Error()})
		return
	}

	s.logger.Debug(fmt.Sprintf("timeframe %s selected (%s)", period, res.Outcome.Kind))
	c.JSON(http.StatusOK, s.controller.View())
}

// handleRefresh re-fetches the selected timeframe
// handleRefresh 手动刷新当前时间周期
func (s *Server) handleRefresh(ctx context.Context, c *app.RequestContext) {
	if !s.refresh.Allow() {
		metrics.RefreshRejectedTotal.Inc()
		c.JSON(http.StatusTooManyRequests, utils.H{"error": "refresh rate limit exceeded, try again shortly"})
		return
	}

	s.controller.Refresh(ctx)
	c.JSON(http.StatusOK, s.controller.View())
}

// handleHealth returns health status
func (s *Server) handleHealth(ctx context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, utils.H{
		"status":  "healthy",
		"time":    time.Now(),
		"version": "1.0.0",
	})
}

// Start starts the web server
func (s *Server) Start() error {
	s.logger.Success(fmt.Sprintf("Sentiment widget API: http://localhost:%d/api/sentiment", s.config.WebPort))
	s.hertz.Spin()
	return nil
}

// Stop stops the web server
func (s *Server) Stop(ctx context.Context) error {
	return s.hertz.Shutdown(ctx)
}
