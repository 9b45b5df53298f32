package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iho/profitshare/internal/adapter/http/dto"
	"github.com/iho/profitshare/internal/domain"
)

// Scenario is an offline sequence of periods read from YAML.
type Scenario struct {
	Currency string           `yaml:"currency"`
	Periods  []ScenarioPeriod `yaml:"periods"`
}

// ScenarioPeriod is one month of a scenario. Amounts are decimal strings.
type ScenarioPeriod struct {
	Period  string            `yaml:"period"`
	Inputs  map[string]string `yaml:"inputs"`
	Shares  []ScenarioEntry   `yaml:"shares"`
	Charges []ScenarioEntry   `yaml:"charges"`
}

// ScenarioEntry pairs a holder with a shares count or a charge amount.
type ScenarioEntry struct {
	Holder string `yaml:"holder"`
	Amount string `yaml:"amount"`
}

var errEmptyScenario = errors.New("scenario has no periods")

func newCalcCmd() *cobra.Command {
	var (
		file     string
		asJSON   bool
		currency string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run a scenario file through the sequence runner offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read scenario: %w", err)
			}
			sc, err := parseScenario(data)
			if err != nil {
				return err
			}
			if currency != "" {
				sc.Currency = currency
			}
			return runScenario(cmd.OutOrStdout(), sc, asJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Scenario YAML file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().StringVar(&currency, "currency", "", "Override the scenario currency")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func parseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Periods) == 0 {
		return nil, errEmptyScenario
	}
	if sc.Currency == "" {
		sc.Currency = "USD"
	}
	return &sc, nil
}

// Records converts the scenario into validated runner input.
func (s *Scenario) Records() ([]domain.PeriodRecord, error) {
	records := make([]domain.PeriodRecord, 0, len(s.Periods))
	for _, sp := range s.Periods {
		rec, err := sp.record()
		if err != nil {
			return nil, fmt.Errorf("period %q: %w", sp.Period, err)
		}
		records = append(records, rec)
	}
	if err := domain.CheckChronological(records); err != nil {
		return nil, err
	}
	return records, nil
}

func (sp ScenarioPeriod) record() (domain.PeriodRecord, error) {
	key, err := domain.ParseYearMonth(sp.Period)
	if err != nil {
		return domain.PeriodRecord{}, err
	}

	inputs, err := scenarioInputs(sp.Inputs)
	if err != nil {
		return domain.PeriodRecord{}, err
	}

	p := &domain.Period{Key: key, Inputs: inputs}
	for _, e := range sp.Shares {
		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			return domain.PeriodRecord{}, fmt.Errorf("shares for %s: %w", e.Holder, err)
		}
		p.Shares = append(p.Shares, domain.ShareEntry{HolderID: e.Holder, Shares: amount})
	}
	for _, e := range sp.Charges {
		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			return domain.PeriodRecord{}, fmt.Errorf("charge for %s: %w", e.Holder, err)
		}
		p.Charges = append(p.Charges, domain.PersonalCharge{HolderID: e.Holder, Amount: amount})
	}

	if err := domain.ValidatePeriod(p); err != nil {
		return domain.PeriodRecord{}, err
	}
	return p.Record(), nil
}

func scenarioInputs(raw map[string]string) (domain.PeriodInputs, error) {
	var in domain.PeriodInputs
	fields := map[string]*decimal.Decimal{
		"net_income":           &in.NetIncome,
		"pool_addback":         &in.PoolAddBack,
		"owner_compensation":   &in.OwnerCompensation,
		"tax_optimization_adj": &in.TaxOptimizationAdj,
		"uncollectible_adj":    &in.UncollectibleAdj,
		"payout_addback":       &in.PayoutAddBack,
	}
	for name, value := range raw {
		target, ok := fields[name]
		if !ok {
			return in, fmt.Errorf("unknown input %q", name)
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return in, fmt.Errorf("input %s: %w", name, err)
		}
		*target = d
	}
	return in, nil
}

func runScenario(w io.Writer, sc *Scenario, asJSON bool) error {
	records, err := sc.Records()
	if err != nil {
		return err
	}

	results := domain.RunSequence(records)
	money := dto.NewMoneyFormatter(sc.Currency)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.HistoryResponse{
			Currency: money.Currency(),
			Periods:  dto.ResultsFromDomain(results, money),
		})
	}

	return printResults(w, results, money)
}

func printResults(w io.Writer, results []domain.PeriodResult, money dto.MoneyFormatter) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	for _, res := range results {
		fmt.Fprintf(tw, "%s\tpool %s\tpaid %s\t\t\t\t\n", res.Key, money.Format(res.AdjustedPool), money.Format(res.ActualRoundedTotal))
		fmt.Fprintln(tw, "holder\tshares\tpre-share\tcharge\tcarry in\tpayout\tcarry out\t")
		for _, row := range res.Rows {
			mark := ""
			if row.ReceivedRoundingAdjustment {
				mark = " *"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s%s\t%s\t\n",
				row.HolderID,
				row.Shares.String(),
				row.PreShare.StringFixed(2),
				row.PersonalCharge.StringFixed(2),
				row.CarryForwardIn.StringFixed(2),
				money.Format(row.PayoutRounded), mark,
				row.CarryForwardOut.StringFixed(2),
			)
		}
		fmt.Fprintln(tw, "\t\t\t\t\t\t\t")
	}

	if len(results) > 0 {
		outstanding := results[len(results)-1].CarryForwardOut()
		fmt.Fprintf(tw, "outstanding carry-forward\t%s\t\t\t\t\t\t\n", money.Format(outstanding.Total()))
	}

	return tw.Flush()
}
