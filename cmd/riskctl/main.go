// Command riskctl scores a single UPI transaction from the command line,
// either locally or against a remote scoring endpoint.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/olekukonko/tablewriter"

	"github.com/bibbank/upi-risk/internal/application/dto"
	"github.com/bibbank/upi-risk/internal/application/usecase"
	"github.com/bibbank/upi-risk/internal/domain/model"
	"github.com/bibbank/upi-risk/internal/infrastructure/config"
	"github.com/bibbank/upi-risk/internal/infrastructure/strategy"
	"github.com/bibbank/upi-risk/internal/observability"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("riskctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fields := map[string]*string{
		dto.FieldAmount:           fs.String("amount", "", "Transaction amount (required, > 0)"),
		dto.FieldTimestamp:        fs.String("timestamp", "", "Transaction time, e.g. 2024-03-01T02:15:00+05:30 or \"02:00 local\""),
		dto.FieldPayerID:          fs.String("payer", "", "Payer VPA (required)"),
		dto.FieldPayeeID:          fs.String("payee", "", "Payee VPA (required)"),
		dto.FieldDeviceID:         fs.String("device", "", "Device identifier (required)"),
		dto.FieldGeoLat:           fs.String("geo-lat", "", "Latitude"),
		dto.FieldGeoLon:           fs.String("geo-lon", "", "Longitude"),
		dto.FieldTxnCountLastHour: fs.String("txn-count", "", "Transactions by the payer in the last hour"),
		dto.FieldAvgTicketLast7d:  fs.String("avg-ticket", "", "Average ticket size over the last 7 days"),
	}
	var (
		endpoint = fs.String("endpoint", "", "Remote scoring endpoint; empty scores locally")
		timeout  = fs.Duration("timeout", 0, "Remote request timeout (0 waits indefinitely)")
		token    = fs.String("token", "", "Bearer token for the remote endpoint")
		tz       = fs.String("tz", "", "IANA zone used to read timestamps locally")
		asJSON   = fs.Bool("json", false, "Print the raw PredictionResult JSON")
	)

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	form := make(map[string]string, len(fields))
	for key, val := range fields {
		form[key] = *val
	}

	req, err := dto.ParseForm(form)
	if err != nil {
		fmt.Fprintf(stderr, "riskctl: %v\n", err)
		return exitUsage
	}

	logger := observability.NewLogger(stderr, observability.LogConfig{Level: "warn", Format: "text"})

	predictor, err := strategy.NewPredictor(config.Config{
		PredictEndpoint: *endpoint,
		RemoteTimeout:   *timeout,
		RemoteAuthToken: *token,
		LocalTimezone:   *tz,
	}, logger)
	if err != nil {
		fmt.Fprintf(stderr, "riskctl: %v\n", err)
		return exitUsage
	}

	uc := usecase.NewPredictTransaction(predictor, usecase.WithLogger(logger))

	resp, err := uc.Execute(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "riskctl: %v\n", err)
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			return exitUsage
		}
		return exitFailure
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fmt.Fprintf(stderr, "riskctl: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	render(stdout, resp)
	return exitOK
}

func render(w io.Writer, resp dto.PredictionResponse) {
	fmt.Fprintf(w, "Label:    %s\n", resp.Label)
	fmt.Fprintf(w, "Score:    %.4f\n", resp.Score)
	fmt.Fprintf(w, "Strategy: %s\n", resp.Strategy)
	if resp.Explanation != "" {
		fmt.Fprintf(w, "Reason:   %s\n", resp.Explanation)
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Feature", "Value", "Weight"})
	for _, f := range resp.TopFeatures {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		table.Append([]string{label, formatValue(f.Value), fmt.Sprintf("%.4f", f.Weight)})
	}
	table.Render()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
