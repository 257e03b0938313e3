package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"credit-scoring-api/internal/adapters/primary/http/middleware"
	"credit-scoring-api/internal/adapters/primary/web"
	"credit-scoring-api/internal/client"
	"credit-scoring-api/internal/config"
	"credit-scoring-api/internal/logging"
)

// setup loads configuration and applies flag overrides.
func setup(cmd *cobra.Command) (*config.Config, *client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logging.Init(cfg.Logger)

	flags := cmd.Flags()
	if url, _ := flags.GetString("url"); url != "" {
		cfg.Upstream.URL = url
	}
	if timeout, _ := flags.GetDuration("timeout"); timeout > 0 {
		cfg.Upstream.Timeout = timeout
	}
	if key, _ := flags.GetString("api-key"); key != "" {
		cfg.APIKey = key
	}

	return cfg, client.New(cfg.Upstream.URL, cfg.Upstream.Timeout, cfg.APIKey), nil
}

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [client-id]",
		Short: "Request a credit decision for one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			id, err := client.ParseClientID(args[0])
			if err != nil {
				return err
			}

			_, api, err := setup(cmd)
			if err != nil {
				return err
			}

			result, err := api.Predict(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintf(out, "Résultat de la prédiction : %s\n", result.Resultat)
			fmt.Fprintf(out, "Prédiction (0 = Crédit accordé, 1 = Crédit refusé) : %d\n", result.Prediction)
			if result.Proba != nil {
				fmt.Fprintf(out, "Probabilité de défaut : %.4f\n", *result.Proba)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output the raw API response as JSON")

	return cmd
}

func uiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Serve the web front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, api, err := setup(cmd)
			if err != nil {
				return err
			}

			router := web.New(api).Router(middleware.RequestID(), middleware.Logging(), gin.Recovery())

			addr := cfg.UI.Addr()
			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			log.WithFields(log.Fields{
				"addr": addr,
				"api":  api.BaseURL(),
			}).Info("starting front end")
			return srv.ListenAndServe()
		},
	}

	return cmd
}
