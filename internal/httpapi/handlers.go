// Package httpapi exposes the solver and generator over a small JSON API.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/AgbediaSamuel/sudoku-solver/internal/board"
	"github.com/AgbediaSamuel/sudoku-solver/internal/generator"
	"github.com/AgbediaSamuel/sudoku-solver/internal/solver"
	"github.com/AgbediaSamuel/sudoku-solver/internal/validator"
)

// Handler serves the /api/v1 endpoints.
type Handler struct {
	validator validator.ExternalValidator // optional; nil means none
}

// New creates an API handler. The validator may be nil.
func New(v validator.ExternalValidator) *Handler {
	return &Handler{validator: v}
}

// Register mounts the API routes on the engine.
func (h *Handler) Register(e *gin.Engine) {
	v1 := e.Group("/api").Group("/v1")
	v1.POST("/solve", h.Solve)
	v1.POST("/generate", h.Generate)

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

type solveRequest struct {
	N               int    `json:"n" binding:"required"`
	Puzzle          string `json:"puzzle" binding:"required"`
	MRV             *bool  `json:"mrv,omitempty"`
	ForwardChecking *bool  `json:"forwardChecking,omitempty"`
	Explain         bool   `json:"explain,omitempty"`
}

type statsBody struct {
	Nodes           int    `json:"nodes"`
	Backtracks      int    `json:"backtracks"`
	Duration        string `json:"duration"`
	MRV             bool   `json:"mrv"`
	ForwardChecking bool   `json:"forwardChecking"`
}

type solveResponse struct {
	Solvable     bool      `json:"solvable"`
	Solution     string    `json:"solution,omitempty"`
	Grid         [][]int   `json:"grid,omitempty"`
	Stats        statsBody `json:"stats"`
	Explanations []string  `json:"explanations,omitempty"`
}

// Solve handles POST /api/v1/solve.
func (h *Handler) Solve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	b, err := board.FromString(req.N, req.Puzzle)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed puzzle", "message": err.Error()})
		return
	}

	opts := solver.DefaultOptions()
	opts.Explain = req.Explain
	if req.MRV != nil {
		opts.MRV = *req.MRV
	}
	if req.ForwardChecking != nil {
		opts.ForwardChecking = *req.ForwardChecking
	}
	opts.Validator = h.validator

	s := solver.New(opts)
	solution, stats, err := s.Solve(c.Request.Context(), b)

	resp := solveResponse{
		Stats: statsBody{
			Nodes:           stats.Nodes,
			Backtracks:      stats.Backtracks,
			Duration:        stats.Duration.String(),
			MRV:             stats.MRV,
			ForwardChecking: stats.ForwardChecking,
		},
	}

	switch {
	case err == nil:
		resp.Solvable = true
		resp.Solution = solution.String()
		resp.Grid = solution.Grid()
		resp.Explanations = s.Explanations()
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, solver.ErrUnsatisfiable):
		resp.Explanations = s.Explanations()
		c.JSON(http.StatusOK, resp)
	default:
		log.Err(err).Msg("solve request aborted")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "solve aborted", "message": err.Error()})
	}
}

type generateRequest struct {
	N          int    `json:"n" binding:"required"`
	Difficulty string `json:"difficulty,omitempty"`
	Clues      int    `json:"clues,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
	Unique     bool   `json:"unique,omitempty"`
}

type generateResponse struct {
	Puzzle   string `json:"puzzle"`
	Solution string `json:"solution"`
	Clues    int    `json:"clues"`
	Seed     int64  `json:"seed"`
	Duration string `json:"duration"`
}

// Generate handles POST /api/v1/generate.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := generator.DefaultOptions()
	opts.Seed = seed
	opts.EnsureUnique = req.Unique

	g, err := generator.New(req.N, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board size", "message": err.Error()})
		return
	}

	start := time.Now()
	var puzzle, solution *board.Board
	ctx := c.Request.Context()
	if req.Clues > 0 {
		solution, err = g.BuildCompleteGrid(ctx)
		if err == nil {
			puzzle, err = g.Carve(ctx, solution, req.Clues)
		}
	} else {
		difficulty := generator.Difficulty(req.Difficulty)
		if difficulty == "" {
			difficulty = generator.Medium
		}
		puzzle, solution, err = g.Generate(ctx, difficulty)
	}
	if err != nil {
		if errors.Is(err, generator.ErrInvalidClueCount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clue count", "message": err.Error()})
			return
		}
		log.Err(err).Msg("generate request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Puzzle:   puzzle.String(),
		Solution: solution.String(),
		Clues:    puzzle.ClueCount(),
		Seed:     seed,
		Duration: time.Since(start).String(),
	})
}
