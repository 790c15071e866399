package factor

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/pricefactor/dataset"
)

// latentTable generates low-noise ratings from known 2-d user and item
// vectors, over three timestamps.
func latentTable() dataset.Table {
	users := [][2]float64{{1, 0.5}, {0.2, 1}, {-0.5, 0.8}, {0.9, -0.3}}
	items := [][2]float64{{1, 0.2}, {0.3, 1}, {0.8, 0.8}}

	var table dataset.Table
	k := 0
	for a, u := range users {
		for b, v := range items {
			for c := 0; c < 3; c++ {
				rating := 3 + u[0]*v[0] + u[1]*v[1] + 0.01*math.Sin(float64(k))
				table = append(table, dataset.Rating{
					UserID:    fmt.Sprintf("u%d", a),
					ItemID:    fmt.Sprintf("i%d", b),
					Rating:    rating,
					Timestamp: fmt.Sprintf("d%d", c),
				})
				k++
			}
		}
	}
	return table
}

// purchaseTable is 3 users x 2 items x 5 distinct dates with ratings in [1, 5].
func purchaseTable() dataset.Table {
	dates := []string{"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05"}
	var table dataset.Table
	k := 0
	for u := 0; u < 3; u++ {
		for i := 0; i < 2; i++ {
			for _, d := range dates {
				table = append(table, dataset.Rating{
					UserID:    fmt.Sprintf("user%d", u+1),
					ItemID:    fmt.Sprintf("prod%d", i+1),
					Rating:    float64(1 + (u*3+i*2+k)%5),
					Timestamp: d,
				})
				k++
			}
		}
	}
	return table
}
