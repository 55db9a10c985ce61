package algotrade

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"

	"github.com/iamshubhamw08/AlgoTrade/metric"
)

// Summary displays realized trades, accuracy and portfolio metrics in
// stdout. To access the raw data, use Performance.
func (e *Engine) Summary() {
	var (
		total  float64
		wins   int
		loses  int
		volume float64
		sqn    float64
	)

	_, summaries := e.Performance()

	symbols := make([]string, 0, len(summaries))
	for symbol := range summaries {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	buffer := bytes.NewBuffer(nil)
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Symbol", "Trades", "Win", "Loss", "% Win", "Payoff", "Pr Fact.", "SQN", "Profit", "Volume"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)
	avgPayoff := 0.0
	avgProfitFactor := 0.0

	returns := make([]float64, 0)
	for _, symbol := range symbols {
		summary := summaries[symbol]
		avgPayoff += summary.Payoff() * float64(summary.Trades())
		avgProfitFactor += summary.ProfitFactor() * float64(summary.Trades())
		table.Append([]string{
			summary.Symbol,
			strconv.Itoa(summary.Trades()),
			strconv.Itoa(len(summary.Win)),
			strconv.Itoa(len(summary.Lose)),
			fmt.Sprintf("%.1f %%", summary.WinRate()),
			fmt.Sprintf("%.3f", summary.Payoff()),
			fmt.Sprintf("%.3f", summary.ProfitFactor()),
			fmt.Sprintf("%.1f", summary.SQN()),
			fmt.Sprintf("%.2f", summary.Profit()),
			fmt.Sprintf("%.2f", summary.Volume),
		})
		total += summary.Profit()
		sqn += summary.SQN()
		wins += len(summary.Win)
		loses += len(summary.Lose)
		volume += summary.Volume

		returns = append(returns, summary.ReturnsPercent()...)
	}

	if wins+loses > 0 {
		table.SetFooter([]string{
			"TOTAL",
			strconv.Itoa(wins + loses),
			strconv.Itoa(wins),
			strconv.Itoa(loses),
			fmt.Sprintf("%.1f %%", float64(wins)/float64(wins+loses)*100),
			fmt.Sprintf("%.3f", avgPayoff/float64(wins+loses)),
			fmt.Sprintf("%.3f", avgProfitFactor/float64(wins+loses)),
			fmt.Sprintf("%.1f", sqn/float64(len(summaries))),
			fmt.Sprintf("%.2f", total),
			fmt.Sprintf("%.2f", volume),
		})
	}
	table.Render()
	fmt.Println(buffer.String())

	account := e.Account()
	valuation := e.Valuation()
	fmt.Println("------ PORTFOLIO -------")
	fmt.Printf("START BALANCE: %.2f\n", account.StartBalance)
	fmt.Printf("CASH:          %.2f\n", valuation.Cash)
	fmt.Printf("INVESTED:      %.2f\n", valuation.InvestedValue)
	fmt.Printf("NET WORTH:     %.2f\n", valuation.NetWorth)
	fmt.Printf("TOTAL RETURN:  %.2f %%\n", account.TotalReturnPercent(valuation.NetWorth))
	fmt.Println()

	if len(returns) == 0 {
		return
	}

	fmt.Println("------ RETURN -------")
	hist := histogram.Hist(15, returns)
	if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(10)); err != nil {
		e.log.WithError(err).Warn("failed to render return histogram")
	}
	fmt.Println()

	fmt.Println("------ CONFIDENCE INTERVAL (95%) -------")
	for _, symbol := range symbols {
		summary := summaries[symbol]
		if summary.Trades() == 0 {
			continue
		}
		fmt.Printf("| %s |\n", symbol)
		symbolReturns := summary.ReturnsPercent()
		returnsInterval := metric.Bootstrap(symbolReturns, metric.Mean, 10000, 0.95)
		payoffInterval := metric.Bootstrap(symbolReturns, metric.Payoff, 10000, 0.95)
		profitFactorInterval := metric.Bootstrap(symbolReturns, metric.ProfitFactor, 10000, 0.95)

		fmt.Printf("RETURN:      %.2f%% (%.2f%% ~ %.2f%%)\n",
			returnsInterval.Mean, returnsInterval.Lower, returnsInterval.Upper)
		fmt.Printf("PAYOFF:      %.2f (%.2f ~ %.2f)\n",
			payoffInterval.Mean, payoffInterval.Lower, payoffInterval.Upper)
		fmt.Printf("PROF.FACTOR: %.2f (%.2f ~ %.2f)\n",
			profitFactorInterval.Mean, profitFactorInterval.Lower, profitFactorInterval.Upper)
	}
	fmt.Println()
}
