package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AgbediaSamuel/sudoku-solver/internal/httpapi"
	"github.com/AgbediaSamuel/sudoku-solver/internal/validator"
)

var (
	serveAddr      string
	serveValidator string
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver and generator over HTTP",
		Long: `Start a JSON API exposing POST /api/v1/solve and POST /api/v1/generate.

Examples:
  sudoku serve
  sudoku serve --addr :9090 --validator http://localhost:8000`,
		RunE: runServe,
	}

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveValidator, "validator", "", "Base URL of an external constraint validator")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	var v validator.ExternalValidator
	if serveValidator != "" {
		client, err := validator.NewClient(serveValidator, nil)
		if err != nil {
			return err
		}
		v = client
	}

	e := gin.Default()
	httpapi.New(v).Register(e)

	log.Info().Str("addr", serveAddr).Msg("listening")
	if err := e.Run(serveAddr); err != nil {
		log.Err(err).Msg("run server")
		return err
	}
	return nil
}
