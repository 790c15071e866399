package factor

import (
	"context"
	"math"
	"math/rand"

	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

// trainer owns a State while it is being built. Nothing else can see the
// state until train returns successfully.
type trainer struct {
	params   Params
	rng      *rand.Rand
	state    *State
	logger   log.Logger
	progress ProgressFunc
	losses   []float64
}

func newTrainer(params Params, logger log.Logger, progress ProgressFunc) *trainer {
	return &trainer{
		params:   params,
		rng:      rand.New(rand.NewSource(params.Seed)),
		state:    NewState(params),
		logger:   logger,
		progress: progress,
	}
}

// normalVector draws a factor vector from N(0, 1/NFactors).
func (tr *trainer) normalVector() []float64 {
	std := 1 / float64(tr.params.NFactors)
	v := make([]float64, tr.params.NFactors)
	for i := range v {
		v[i] = tr.rng.NormFloat64() * std
	}
	return v
}

func (tr *trainer) initUser(name string) int32 {
	s := tr.state
	if id := s.Users.ToNumber(name); id != NotId {
		return id
	}
	id := s.Users.Add(name)
	s.UserFactor = append(s.UserFactor, tr.normalVector())
	s.UserBias = append(s.UserBias, 0)
	s.UserTimeBias = append(s.UserTimeBias, make(map[int32]float64))
	return id
}

func (tr *trainer) initItem(name string) int32 {
	s := tr.state
	if id := s.Items.ToNumber(name); id != NotId {
		return id
	}
	id := s.Items.Add(name)
	s.ItemFactor = append(s.ItemFactor, tr.normalVector())
	s.ItemBias = append(s.ItemBias, 0)
	s.ItemTimeBias = append(s.ItemTimeBias, make(map[int32]float64))
	return id
}

// cancelCheckRows is how often, in rows, ctx is polled inside an epoch.
const cancelCheckRows = 1024

// train runs the full SGD schedule over table, which must already be valid.
func (tr *trainer) train(ctx context.Context, table dataset.Table) (*State, error) {
	s := tr.state
	s.GlobalMean = table.Mean()
	s.NSamples = len(table)

	// 初期化順序: 出現順に全ユーザー、次に全商品
	for _, user := range table.Users() {
		tr.initUser(user)
	}
	for _, item := range table.Items() {
		tr.initItem(item)
	}
	// 時刻キーも出現順に登録する（ループ内の Add と同じIDになる）
	for _, ts := range table.Timestamps() {
		s.Timestamps.Add(ts)
	}

	lr, reg := tr.params.LearningRate, tr.params.Regularization
	epochs := tr.params.Epochs
	tr.losses = make([]float64, 0, epochs)

	for epoch := 1; epoch <= epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "fit cancelled before epoch %d", epoch)
		}

		var sse float64
		for r, row := range table {
			if r > 0 && r%cancelCheckRows == 0 {
				if err := ctx.Err(); err != nil {
					return nil, errors.Wrapf(err, "fit cancelled in epoch %d at row %d", epoch, r)
				}
			}
			u := tr.initUser(row.UserID)
			i := tr.initItem(row.ItemID)
			t := s.Timestamps.Add(row.Timestamp)
			if _, ok := s.UserTimeBias[u][t]; !ok {
				s.UserTimeBias[u][t] = 0
			}
			if _, ok := s.ItemTimeBias[i][t]; !ok {
				s.ItemTimeBias[i][t] = 0
			}

			pred := s.predict(u, i, t)
			err := row.Rating - pred
			sse += err * err

			s.UserBias[u] += lr * (err - reg*s.UserBias[u])
			s.ItemBias[i] += lr * (err - reg*s.ItemBias[i])
			s.UserTimeBias[u][t] += lr * (err - reg*s.UserTimeBias[u][t])
			s.ItemTimeBias[i][t] += lr * (err - reg*s.ItemTimeBias[i][t])

			// 両方の更新量は更新前の値から計算する
			pu, qi := s.UserFactor[u], s.ItemFactor[i]
			for f := range pu {
				puf, qif := pu[f], qi[f]
				pu[f] += lr * (err*qif - reg*puf)
				qi[f] += lr * (err*puf - reg*qif)
			}
		}

		rmse := math.Sqrt(sse / float64(len(table)))
		if err := errors.CheckScalar("Fit", rmse, epoch); err != nil {
			return nil, err
		}
		tr.losses = append(tr.losses, rmse)

		if tr.logger.Enabled(ctx, log.LevelDebug) {
			tr.logger.Debug("Epoch completed",
				log.EpochKey, epoch,
				log.EpochsKey, epochs,
				log.LossKey, rmse,
			)
		}
		if tr.progress != nil {
			tr.progress(epoch, epochs)
		}
	}

	return s, nil
}
