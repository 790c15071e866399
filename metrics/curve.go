package metrics

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// SaveLearningCurve は学習中のエポックごとのRMSEを折れ線グラフとして保存する
//
// 出力形式はpathの拡張子（.png, .svg, .pdf）で決まる。
func SaveLearningCurve(losses []float64, path string) error {
	if len(losses) == 0 {
		return errors.NewValidationError("losses", "learning curve needs at least one epoch", len(losses))
	}
	if err := errors.CheckFinite("SaveLearningCurve", losses, len(losses)); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Training RMSE"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "RMSE"

	pts := make(plotter.XYs, len(losses))
	for i, loss := range losses {
		pts[i].X = float64(i + 1)
		pts[i].Y = loss
	}

	if err := plotutil.AddLinePoints(p, "train", pts); err != nil {
		return errors.Wrap(err, "build learning curve")
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save learning curve to %s", path)
	}
	return nil
}
