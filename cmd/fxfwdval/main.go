package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/meenmo/fxlib/calendar"
	"github.com/meenmo/fxlib/curve"
	"github.com/meenmo/fxlib/fx"
	"github.com/meenmo/fxlib/marketdata"
)

type valuationInput struct {
	TaskID            string                `json:"task_id,omitempty"`
	ValuationDate     string                `json:"valuation_date"`
	Pair              string                `json:"pair"`
	Spot              float64               `json:"spot"`
	ForwardPoints     []marketdata.QuoteRow `json:"forward_points"`
	BaseZeroRate      float64               `json:"base_zero_rate"`
	TermZeroRate      float64               `json:"term_zero_rate"`
	DayCount          string                `json:"day_count"`
	Calendar          string                `json:"calendar"`
	DeliveryDate      string                `json:"delivery_date"`
	BaseNotional      float64               `json:"base_notional"`
	ContractAllInRate float64               `json:"contract_all_in_rate"`
	ForwardType       string                `json:"forward_type"`
}

type valuationOutput struct {
	TaskID                string  `json:"task_id,omitempty"`
	ValuationDate         string  `json:"valuation_date"`
	Pair                  string  `json:"pair"`
	BaseCurrency          string  `json:"base_currency"`
	TermCurrency          string  `json:"term_currency"`
	FairForwardPoints     float64 `json:"fair_forward_points"`
	ForwardNetValueBase   float64 `json:"forward_net_value_base"`
	ForwardNetValueTerm   float64 `json:"forward_net_value_term"`
	ForwardGrossValueBase float64 `json:"forward_gross_value_base"`
	ForwardGrossValueTerm float64 `json:"forward_gross_value_term"`
	PresentNetValueBase   float64 `json:"present_net_value_base"`
	PresentNetValueTerm   float64 `json:"present_net_value_term"`
	Error                 string  `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: fxfwdval -input <path>")
		fmt.Fprintln(os.Stderr, "Value FX forward contracts off a forward-point curve and flat zero curves.")
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: fxfwdval -input <path>")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}

	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		exitError(fmt.Sprintf("parse JSON: %v", err))
	}

	hadError := false
	outputs := make([]valuationOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := process(in)
		if err != nil {
			hadError = true
			outputs = append(outputs, valuationOutput{TaskID: in.TaskID, Error: err.Error()})
			continue
		}
		outputs = append(outputs, *out)
	}

	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
	} else {
		b, _ := json.Marshal(outputs[0])
		fmt.Println(string(b))
	}

	if hadError {
		os.Exit(1)
	}
}

func process(in valuationInput) (*valuationOutput, error) {
	valuationDate, err := time.Parse("2006-01-02", in.ValuationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid valuation_date: %v", err)
	}
	deliveryDate, err := time.Parse("2006-01-02", in.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery_date: %v", err)
	}
	base, term, err := marketdata.ParsePair(in.Pair)
	if err != nil {
		return nil, err
	}

	var forwardType fx.ForwardType
	switch in.ForwardType {
	case "SellBaseBuyTerm", "":
		forwardType = fx.SellBaseBuyTermForward
	case "BuyBaseSellTerm":
		forwardType = fx.BuyBaseSellTermForward
	default:
		return nil, fmt.Errorf("unsupported forward_type %q", in.ForwardType)
	}

	terms := fx.DefaultFxTerms(base, term)
	if in.DayCount != "" {
		terms.DayCount = in.DayCount
	}
	if in.Calendar != "" {
		terms.Calendar = calendar.CalendarID(in.Calendar)
	}

	rec, err := marketdata.ParseRateRec(in.Pair, fmt.Sprintf("%g", in.Spot), in.ForwardPoints)
	if err != nil {
		return nil, err
	}
	pointCurve, err := marketdata.BuildForwardPointCurve(valuationDate, rec, terms.DayCount, terms.Calendar)
	if err != nil {
		return nil, err
	}

	baseDiscount := curve.NewFlatZeroCurve(valuationDate, in.BaseZeroRate)
	termDiscount := curve.NewFlatZeroCurve(valuationDate, in.TermZeroRate)

	contract, err := fx.NewForeignExchangeForwardWithTerms(deliveryDate,
		fx.NewMoney(in.BaseNotional, base),
		fx.NewExchangeRate(base, term, in.ContractAllInRate),
		forwardType, terms)
	if err != nil {
		return nil, err
	}
	spot, err := rec.SpotExchangeRate()
	if err != nil {
		return nil, err
	}
	contract.SetPricingEngine(fx.NewForwardPointsEngine(spot, pointCurve, baseDiscount, termDiscount))

	out := &valuationOutput{
		TaskID:        in.TaskID,
		ValuationDate: in.ValuationDate,
		Pair:          in.Pair,
		BaseCurrency:  contract.BaseCurrency().Code(),
		TermCurrency:  contract.TermCurrency().Code(),
	}
	if out.FairForwardPoints, err = contract.FairForwardPoints(); err != nil {
		return nil, err
	}

	monetary := []struct {
		dst  *float64
		read func() (fx.Money, error)
	}{
		{&out.ForwardNetValueBase, contract.ForwardNetValueBase},
		{&out.ForwardNetValueTerm, contract.ForwardNetValueTerm},
		{&out.ForwardGrossValueBase, contract.ForwardGrossValueBase},
		{&out.ForwardGrossValueTerm, contract.ForwardGrossValueTerm},
		{&out.PresentNetValueBase, contract.PresentNetValueBase},
		{&out.PresentNetValueTerm, contract.PresentNetValueTerm},
	}
	for _, m := range monetary {
		v, err := m.read()
		if err != nil {
			return nil, err
		}
		*m.dst = v.Value()
	}
	return out, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func parseInputs(raw []byte) ([]valuationInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []valuationInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var in valuationInput
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return nil, false, err
	}
	return []valuationInput{in}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(valuationOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
