package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/contract"
	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the scheduler service and its API contract",
	Long: `Run diagnostics against the configured scheduler service.

Checks include:
  • Scheduler service reachability (GET /projects)
  • API contract coverage: every endpoint planboard calls must be described
    by the contract document (the built-in one, or --contract-url)

Examples:
  planboard doctor
  planboard doctor --contract-url http://scheduler:8080/openapi.yaml
  planboard doctor --format json`,
	RunE: runDoctor,
}

var (
	doctorContractURL string
	doctorTimeout     time.Duration
)

func init() {
	doctorCmd.Flags().StringVar(&doctorContractURL, "contract-url", "", "OpenAPI document published by the scheduler service")
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 10*time.Second, "time limit for each check")

	rootCmd.AddCommand(doctorCmd)
}

// DoctorReport represents the complete health check report
type DoctorReport struct {
	BaseURL string                    `json:"baseUrl" yaml:"baseUrl"`
	Status  health.Status             `json:"status" yaml:"status"`
	Checks  map[string]*health.Result `json:"checks" yaml:"checks"`
}

// WriteText renders one line per check plus its details
func (r DoctorReport) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Scheduler service: %s\n\n", r.BaseURL)

	names := make([]string, 0, len(r.Checks))
	for name := range r.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res := r.Checks[name]
		fmt.Fprintf(w, "%s %-14s %s", statusIcon(res.Status), name, res.Message)
		if res.Latency > 0 {
			fmt.Fprintf(w, " (%s)", res.Latency.Round(time.Millisecond))
		}
		fmt.Fprintln(w)

		keys := make([]string, 0, len(res.Details))
		for k := range res.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "    %s: %v\n", k, res.Details[k])
		}
	}

	_, err := fmt.Fprintf(w, "\nOverall: %s\n", r.Status)
	return err
}

func statusIcon(s health.Status) string {
	switch s {
	case health.StatusHealthy:
		return "✓"
	case health.StatusDegraded:
		return "⚠"
	default:
		return "✗"
	}
}

func contractLoader(url string) (health.ContractLoader, string) {
	if url == "" {
		return contract.Embedded, "built-in"
	}
	return func(ctx context.Context) (*openapi3.T, error) {
		return contract.LoadURL(ctx, url)
	}, url
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a := current
	out, err := formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	load, source := contractLoader(doctorContractURL)
	manager := health.NewManager().WithTimeout(doctorTimeout)
	manager.AddChecker(health.NewAPIChecker(a.client, a.cfg.API.BaseURL))
	manager.AddChecker(health.NewContractChecker(load, source))

	results := manager.Check(cmd.Context())
	report := DoctorReport{
		BaseURL: a.cfg.API.BaseURL,
		Status:  manager.OverallStatus(results),
		Checks:  results,
	}
	if err := out.Format(report); err != nil {
		return err
	}

	if res, ok := results["api-contract"]; ok && res.Status == health.StatusUnhealthy {
		return errors.New(errors.ErrCodeContractInvalid, "the API contract does not cover every endpoint planboard calls").
			WithSuggestion("Upgrade the scheduler service or point --contract-url at the matching document")
	}
	if res, ok := results["scheduler-api"]; ok && res.Status == health.StatusUnhealthy {
		return errors.New(errors.ErrCodeTransport, "the scheduler service is unreachable").
			WithSuggestion(fmt.Sprintf("Start the service at %s or set PLANBOARD_API_URL", a.cfg.API.BaseURL))
	}
	return nil
}
