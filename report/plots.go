package report

import (
	"path"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/greenlab/greenhouse-rl/env"
	"github.com/greenlab/greenhouse-rl/rl"
)

func toXYs(values []float64) plotter.XYs {
	points := make(plotter.XYs, len(values))
	for i, v := range values {
		points[i] = plotter.XY{
			X: float64(i),
			Y: v,
		}
	}
	return points
}

// plotQuantity draws the series of every source holding the quantity into a
// single chart. Plotting failures are logged, never fatal.
func (e *Exporter) plotQuantity(buffers *env.HistoryBuffers, quantity string) {
	p := plot.New()
	p.Title.Text = quantity
	p.X.Label.Text = "Sub-step"
	p.Y.Label.Text = quantity
	drawn := 0
	for i, source := range exportSources {
		series := buffers.Series(source, quantity)
		if len(series) == 0 {
			continue
		}
		line, err := plotter.NewLine(toXYs(series))
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(string(source), line)
		drawn++
	}
	if drawn == 0 {
		return
	}
	savePath := path.Join(e.dir, quantity+".png")
	if err := p.Save(8*vg.Inch, 8*vg.Inch, savePath); err != nil {
		e.logger.Warn("saving chart failed", zap.String("path", savePath), zap.Error(err))
	}
}

func (e *Exporter) plotRewards(rewards []float64) {
	if len(rewards) == 0 {
		return
	}
	p := plot.New()
	p.Title.Text = "Reward"
	p.X.Label.Text = "Sub-step"
	p.Y.Label.Text = "Reward"
	line, err := plotter.NewLine(toXYs(rewards))
	if err != nil {
		return
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	savePath := path.Join(e.dir, "rewards.png")
	if err := p.Save(8*vg.Inch, 8*vg.Inch, savePath); err != nil {
		e.logger.Warn("saving chart failed", zap.String("path", savePath), zap.Error(err))
	}
}

// TotalRewardPlotter compares the per-episode total reward of several
// experiments in one chart.
func TotalRewardPlotter(plotPath string) rl.Comparator {
	return func(names []string, datasets []rl.DataSet) {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Total reward"
		for i := 0; i < len(names); i++ {
			totals := datasets[i].([]float64)
			line, err := plotter.NewLine(toXYs(totals))
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		p.Save(8*vg.Inch, 8*vg.Inch, plotPath)
	}
}
