package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/figmatch/internal/config"
	"github.com/agenthands/figmatch/internal/core"
	"github.com/agenthands/figmatch/internal/core/community"
	"github.com/agenthands/figmatch/internal/core/dedupe"
	"github.com/agenthands/figmatch/internal/core/model"
	"github.com/agenthands/figmatch/internal/core/parser"
	"github.com/agenthands/figmatch/internal/core/symmetry"
	"github.com/agenthands/figmatch/internal/logging"
)

type Server struct {
	Registry     *symmetry.Registry
	Oracle       *core.Oracle
	Deduplicator *dedupe.Deduplicator
	Detector     community.ClassDetector
	Logger       *zap.Logger
}

func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)
	reg := symmetry.Default()
	oracle := core.NewOracle(reg, cfg.Search.MaxTrials, logger)

	return &Server{
		Registry:     reg,
		Oracle:       oracle,
		Deduplicator: dedupe.NewDeduplicator(oracle, cfg.Batch.Workers, logger),
		Detector:     community.NewSimpleDetector(),
		Logger:       logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/equivalent", s.Equivalent)
	r.POST("/batch", s.Batch)
	r.GET("/constructions", s.Constructions)

	return r
}

type EquivalentRequest struct {
	A string `json:"a" binding:"required"`
	B string `json:"b" binding:"required"`
}

type EquivalentResponse struct {
	Equivalent bool          `json:"equivalent"`
	Outcome    model.Outcome `json:"outcome"`
	Mapping    model.Mapping `json:"mapping,omitempty"`
	Trials     int           `json:"trials"`
}

func (s *Server) Equivalent(c *gin.Context) {
	var req EquivalentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	v, err := s.Oracle.Compare(req.A, req.B)
	if err != nil {
		if errors.Is(err, parser.ErrMalformedStatement) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.Logger.Error("failed to compare", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare"})
		return
	}

	c.JSON(http.StatusOK, EquivalentResponse{
		Equivalent: v.Equivalent(),
		Outcome:    v.Outcome,
		Mapping:    v.Mapping,
		Trials:     v.Trials,
	})
}

type BatchRequest struct {
	Entries []model.Entry `json:"entries" binding:"required"`
}

type BatchResponse struct {
	*dedupe.Report
	Classes [][]string `json:"classes"`
}

func (s *Server) Batch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.Deduplicator.ResolveDuplicates(c.Request.Context(), req.Entries)
	if err != nil {
		s.Logger.Error("failed to resolve duplicates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve duplicates"})
		return
	}

	ids := make([]string, len(req.Entries))
	for i, e := range req.Entries {
		ids[i] = e.ID
	}

	c.JSON(http.StatusOK, BatchResponse{
		Report:  report,
		Classes: s.Detector.Detect(ids, report.Duplicates),
	})
}

type ConstructionInfo struct {
	Name       string               `json:"name"`
	Arity      int                  `json:"arity,omitempty"`
	Variadic   bool                 `json:"variadic,omitempty"`
	Orderings  int                  `json:"orderings,omitempty"`
	Generators []symmetry.Generator `json:"generators"`
}

func (s *Server) Constructions(c *gin.Context) {
	var out []ConstructionInfo
	for _, name := range s.Registry.Names() {
		rule, _ := s.Registry.Rule(name)
		info := ConstructionInfo{
			Name:       name,
			Arity:      rule.Arity,
			Variadic:   rule.Variadic,
			Generators: rule.Generators,
		}
		if rule.Arity > 0 {
			info.Orderings = s.Registry.Count(name, rule.Arity)
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"constructions": out})
}
