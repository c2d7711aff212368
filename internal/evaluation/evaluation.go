// Package evaluation scores estimated positions against ground truth under
// a distance threshold.
package evaluation

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"netloc-sim/internal/common"
)

// DefaultThreshold is the distance within which an estimate counts as
// correctly localized.
const DefaultThreshold = 2.0

// NodeResult is the per-node comparison of an estimate against truth.
type NodeResult struct {
	Node      common.NodeID
	Actual    common.Point
	Estimated common.Point
	Error     float64
	Matched   bool
}

// Report summarizes one localization run.
type Report struct {
	Threshold float64
	Estimated int // nodes the strategy produced a result for
	Matched   int // estimates within the threshold of truth
	Accuracy  float64
	MeanError float64
	Results   []NodeResult // ascending node id
}

// Evaluate compares estimated positions with actual ones. Nodes absent from
// estimated (anchors, unresolved nodes) are skipped; accuracy is the
// percentage of produced estimates within the threshold, zero when nothing
// was estimated.
func Evaluate(actual, estimated map[common.NodeID]common.Point, threshold float64) Report {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	report := Report{Threshold: threshold, Estimated: len(estimated)}

	var errors []float64
	for node, est := range estimated {
		truth, ok := actual[node]
		if !ok {
			continue
		}
		errVal := truth.Distance(est)
		matched := errVal <= threshold
		if matched {
			report.Matched++
		}
		errors = append(errors, errVal)
		report.Results = append(report.Results, NodeResult{
			Node:      node,
			Actual:    truth,
			Estimated: est,
			Error:     errVal,
			Matched:   matched,
		})
	}
	sort.Slice(report.Results, func(a, b int) bool {
		return report.Results[a].Node < report.Results[b].Node
	})

	if report.Estimated > 0 {
		report.Accuracy = float64(report.Matched) / float64(report.Estimated) * 100
	}
	if len(errors) > 0 {
		report.MeanError = stat.Mean(errors, nil)
	}
	return report
}

// Log writes the per-node comparison and the summary line.
func (r Report) Log(logger *zap.Logger) {
	if logger == nil {
		return
	}
	for _, res := range r.Results {
		logger.Info("node result",
			zap.Int("node", int(res.Node)),
			zap.Stringer("actual", res.Actual),
			zap.Stringer("estimated", res.Estimated),
			zap.Float64("error", res.Error),
			zap.Bool("matched", res.Matched))
	}
	logger.Info("localization accuracy",
		zap.Float64("accuracy_pct", r.Accuracy),
		zap.Int("matched", r.Matched),
		zap.Int("estimated", r.Estimated),
		zap.Float64("mean_error", r.MeanError),
		zap.Float64("threshold", r.Threshold))
}
