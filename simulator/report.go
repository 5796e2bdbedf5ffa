package simulator

import (
	"fmt"
	"io"
)

const reportRule = "---------------------------------------------------------------------------------------"

// WriteReport renders the textual report: a system-level metrics section
// followed by the per-source table. Headline metrics and delays use six
// decimal digits, drop rates four, throughput two.
func (r *Results) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"## System-Level Performance Metrics (%s)\n"+
			"1. Server Utilization:   %.6f\n"+
			"2. Avg. Packet Delay:    %.6f s\n"+
			"3. Packet Drop Prob.:    %.6f\n"+
			"4. Fairness Index:       %.6f\n\n",
		r.Discipline.Label(), r.Utilization, r.AvgDelay, r.DropProbability, r.FairnessIndex)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w,
		"## Per-Source Statistics\n%s\n"+
			"Src | Weight | Gen'd Pkts | Trans'd Pkts | Drop'd Pkts | Drop Rate | Avg Delay (s) | Thruput (B/s)\n%s\n",
		reportRule, reportRule)
	if err != nil {
		return err
	}

	for _, src := range r.Sources {
		_, err = fmt.Fprintf(w, "%3d | %6.2f | %10d | %12d | %11d | %9.4f | %13.6f | %13.2f\n",
			src.SourceID, src.Weight, src.Generated, src.Transmitted, src.Dropped,
			src.DropRate, src.AvgDelay, src.Throughput)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "%s\n", reportRule)
	return err
}
