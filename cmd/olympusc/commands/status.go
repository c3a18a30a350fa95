package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/olympusrpc/olympus/internal/cli/health"
	"github.com/olympusrpc/olympus/internal/cli/output"
	"github.com/olympusrpc/olympus/internal/cli/timeutil"
)

var statusFlags struct {
	format  string
	timeout time.Duration
}

var statusCmd = &cobra.Command{
	Use:   "status <metrics-url>",
	Short: "Check the /healthz endpoint of a running Olympus process",
	Long: `status issues a GET request against a dispatch-runtime process's
/healthz endpoint (served by pkg/metrics.NewServer, bound at
RuntimeConfig.Metrics.Address) and reports whether it is reachable and
healthy.

Examples:
  olympusc status http://127.0.0.1:9090
  olympusc status http://127.0.0.1:9090 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusFlags.format, "output", "o", "table", "Output format: table, json, yaml")
	statusCmd.Flags().DurationVar(&statusFlags.timeout, "timeout", 5*time.Second, "HTTP request timeout")
}

// ProcessStatus is the display-oriented projection of a health.Response.
type ProcessStatus struct {
	Server          string `json:"server" yaml:"server"`
	Status          string `json:"status" yaml:"status"`
	Healthy         bool   `json:"healthy" yaml:"healthy"`
	Service         string `json:"service,omitempty" yaml:"service,omitempty"`
	StartedAt       string `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	Uptime          string `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	LastProcedure   string `json:"last_procedure,omitempty" yaml:"last_procedure,omitempty"`
	LastFingerprint string `json:"last_fingerprint,omitempty" yaml:"last_fingerprint,omitempty"`
	Profiling       bool   `json:"profiling,omitempty" yaml:"profiling,omitempty"`
	Error           string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	server := args[0]

	format, err := output.ParseFormat(statusFlags.format)
	if err != nil {
		return err
	}

	status := ProcessStatus{Server: server, Status: "unreachable"}

	client := &http.Client{Timeout: statusFlags.timeout}
	resp, err := client.Get(server + "/healthz")
	if err != nil {
		status.Error = err.Error()
	} else {
		defer func() { _ = resp.Body.Close() }()

		var healthResp health.Response
		if decErr := json.NewDecoder(resp.Body).Decode(&healthResp); decErr == nil {
			status.Status = healthResp.Status
			status.Healthy = healthResp.Status == "healthy"
			status.Service = healthResp.Data.Service
			status.StartedAt = healthResp.Data.StartedAt
			status.Uptime = healthResp.Data.Uptime
			status.LastProcedure = healthResp.Data.LastProcedure
			status.LastFingerprint = healthResp.Data.LastFingerprint
			status.Profiling = healthResp.Data.Profiling
			if healthResp.Error != "" {
				status.Error = healthResp.Error
			}
		} else {
			status.Status = "unknown"
			status.Error = "failed to parse health response"
		}
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), status)
	case output.FormatYAML:
		return output.PrintYAML(cmd.OutOrStdout(), status)
	default:
		printStatusTable(cmd, status)
	}
	return nil
}

func printStatusTable(cmd *cobra.Command, status ProcessStatus) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Olympus Process Status")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Server:     %s\n", status.Server)

	switch {
	case status.Healthy:
		fmt.Fprintf(w, "  Status:     \033[32m● %s\033[0m\n", status.Status)
	case status.Status == "unreachable":
		fmt.Fprintf(w, "  Status:     \033[31m○ %s\033[0m\n", status.Status)
	default:
		fmt.Fprintf(w, "  Status:     \033[33m● %s\033[0m\n", status.Status)
	}

	if status.Service != "" {
		fmt.Fprintf(w, "  Service:    %s\n", status.Service)
	}
	if status.StartedAt != "" {
		fmt.Fprintf(w, "  Started:    %s\n", timeutil.FormatTime(status.StartedAt))
	}
	if status.Uptime != "" {
		fmt.Fprintf(w, "  Uptime:     %s\n", timeutil.FormatUptime(status.Uptime))
	}
	if status.LastProcedure != "" {
		fmt.Fprintf(w, "  Last call:  %s (fingerprint %s)\n", status.LastProcedure, status.LastFingerprint)
	}
	if status.Profiling {
		fmt.Fprintln(w, "  Profiling:  enabled")
	}
	if status.Error != "" {
		fmt.Fprintf(w, "  Error:      %s\n", status.Error)
	}
	fmt.Fprintln(w)
}
