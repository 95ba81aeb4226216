package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
)

// Server exposes a trade store and its analytics over HTTP.
type Server struct {
	store journal.Store
	cfg   *config.Config
	log   *zap.Logger
}

func NewServer(store journal.Store, cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{store: store, cfg: cfg, log: log}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	v1 := r.Group("/api/v1")
	s.RegisterRoutes(v1)
	return r
}

func (s *Server) RegisterRoutes(rg *gin.RouterGroup) {
	trades := rg.Group("/trades")
	{
		trades.GET("", s.ListTrades)
		trades.POST("", s.CreateTrade)
		trades.GET("/:id", s.GetTrade)
		trades.PUT("/:id", s.ReplaceTrade)
		trades.DELETE("/:id", s.DeleteTrade)
	}

	rg.GET("/stats", s.GetStats)
	rg.GET("/equity", s.GetEquity)
}

// TradeView is a trade with its derived P/L.
type TradeView struct {
	journal.Trade
	PnL float64 `json:"pnl"`
}

func views(trades []journal.Trade) []TradeView {
	out := make([]TradeView, len(trades))
	for i, t := range trades {
		out[i] = TradeView{Trade: t, PnL: analytics.Evaluate(t)}
	}
	return out
}

// ListTrades returns the trade log in display order.
// GET /api/v1/trades?sort=pnl&order=desc
func (s *Server) ListTrades(c *gin.Context) {
	sc := analytics.DefaultSortConfig()
	if v := c.Query("sort"); v != "" {
		f, err := analytics.ParseField(v)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		sc = analytics.SortConfig{Field: f, Order: analytics.Ascending}
	}
	if v := c.Query("order"); v != "" {
		o, err := analytics.ParseOrder(v)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		sc.Order = o
	}

	trades, err := s.store.List(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}

	success(c, gin.H{
		"sort":   sc.Field,
		"order":  sc.Order.String(),
		"trades": views(sc.Apply(trades)),
	})
}

// GET /api/v1/trades/:id
func (s *Server) GetTrade(c *gin.Context) {
	t, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	success(c, TradeView{Trade: t, PnL: analytics.Evaluate(t)})
}

// CreateTrade journals a new closed trade from an entry form.
// POST /api/v1/trades
func (s *Server) CreateTrade(c *gin.Context) {
	var e journal.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := e.Trade(s.cfg.Fees.Rate)
	if err != nil {
		storeError(c, err)
		return
	}
	if err := s.store.Add(c.Request.Context(), t); err != nil {
		storeError(c, err)
		return
	}

	s.log.Info("trade added", zap.String("id", t.ID), zap.String("symbol", t.Symbol))
	created(c, TradeView{Trade: t, PnL: analytics.Evaluate(t)})
}

// ReplaceTrade overwrites a trade with a new entry, keeping its ID.
// PUT /api/v1/trades/:id
func (s *Server) ReplaceTrade(c *gin.Context) {
	var e journal.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := e.TradeWithID(c.Param("id"), s.cfg.Fees.Rate)
	if err != nil {
		storeError(c, err)
		return
	}
	if err := s.store.Replace(c.Request.Context(), t); err != nil {
		storeError(c, err)
		return
	}

	s.log.Info("trade replaced", zap.String("id", t.ID))
	success(c, TradeView{Trade: t, PnL: analytics.Evaluate(t)})
}

// DELETE /api/v1/trades/:id
func (s *Server) DeleteTrade(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}

	s.log.Info("trade deleted", zap.String("id", id))
	success(c, gin.H{"id": id})
}

// GetStats analyses the whole journal. initial_balance and rebate_rate
// override the configured values for this request only.
// GET /api/v1/stats
func (s *Server) GetStats(c *gin.Context) {
	st, ok := s.analyze(c)
	if !ok {
		return
	}
	success(c, st)
}

// GET /api/v1/equity
func (s *Server) GetEquity(c *gin.Context) {
	st, ok := s.analyze(c)
	if !ok {
		return
	}
	success(c, st.EquityCurve)
}

func (s *Server) analyze(c *gin.Context) (analytics.Stats, bool) {
	balance := s.cfg.Account.InitialBalance
	rate := s.cfg.Analytics.RebateRate

	if v := c.Query("initial_balance"); v != "" {
		b, err := strconv.ParseFloat(v, 64)
		if err != nil || b <= 0 {
			badRequest(c, "initial_balance must be a positive number")
			return analytics.Stats{}, false
		}
		balance = b
	}
	if v := c.Query("rebate_rate"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 || r > 1 {
			badRequest(c, "rebate_rate must be between 0 and 1")
			return analytics.Stats{}, false
		}
		rate = r
	}

	trades, err := s.store.List(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return analytics.Stats{}, false
	}

	st := analytics.AnalyzeWithRate(trades, balance, rate)
	s.log.Debug("stats computed",
		zap.Int("trades", len(trades)),
		zap.Float64("initial_balance", balance),
		zap.Float64("rebate_rate", rate),
	)
	return st, true
}
