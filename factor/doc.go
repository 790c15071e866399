/*
Package factor implements a time-aware biased matrix factorization model
for (user, item, time) ratings, trained by stochastic gradient descent.

A prediction is

	mean + b_u + b_i + b_u,t + b_i,t + dot(p_u, q_i)

where the time biases b_u,t and b_i,t are free parameters keyed by the exact
timestamp value. Any user, item or timestamp that was never seen in training
contributes zero, so predictions for unknown keys fall back to the global mean.

Training builds a fresh State and publishes it only once every epoch has
finished; a State returned from Train or Model.State is never written again
and may be shared by any number of concurrent readers.

Basic usage:

	m := factor.NewModel(
		factor.WithNFactors(20),
		factor.WithEpochs(20),
		factor.WithSeed(42),
	)
	if err := m.Fit(ctx, table); err != nil {
		return err
	}
	rating := m.Predict("u1", "p7", "2023-01-15")
*/
package factor
