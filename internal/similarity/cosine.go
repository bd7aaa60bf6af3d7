// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package similarity computes the full pairwise cosine-similarity matrix of
// a vector space and answers nearest-neighbour queries by row.
//
// Zero vectors have similarity 0 to every row, themselves included, so the
// diagonal is 1.0 exactly for non-zero rows and 0 for zero rows. The matrix
// is computed once per model snapshot and never updated incrementally.
package similarity

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/tomtom215/marquee/internal/vectorize"
)

// Matrix is a dense, symmetric n x n similarity matrix.
type Matrix struct {
	n    int
	data []float64
}

// Neighbor is one ranked row of a similarity query.
type Neighbor struct {
	Index int
	Score float64
}

// Size returns n.
func (m *Matrix) Size() int { return m.n }

// At returns sim[i][j].
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Row returns a read-only view of row i. Callers must not modify it.
func (m *Matrix) Row(i int) []float64 { return m.data[i*m.n : (i+1)*m.n] }

// Neighbors returns every row except i ordered by descending similarity.
// Equal scores keep ascending row order.
func (m *Matrix) Neighbors(i int) []Neighbor {
	row := m.Row(i)
	out := make([]Neighbor, 0, m.n-1)
	for j, score := range row {
		if j == i {
			continue
		}
		out = append(out, Neighbor{Index: j, Score: score})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}

// Options configures Compute.
type Options struct {
	// Workers is the number of goroutines computing rows.
	// Default: runtime.GOMAXPROCS(0)
	Workers int
}

type posting struct {
	row   int
	value float64
}

// Compute builds the similarity matrix of space.
func Compute(ctx context.Context, space *vectorize.Space, opts Options) (*Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := space.Rows
	n := len(rows)
	m := &Matrix{n: n, data: make([]float64, n*n)}
	if n == 0 {
		return m, nil
	}

	norms := make([]float64, n)
	for i, r := range rows {
		norms[i] = Norm(r)
	}

	// Column postings let each row accumulate its dot products against all
	// later rows without visiting pairs that share no term.
	postings := make([][]posting, space.Width())
	for i, r := range rows {
		for k, col := range r.Indices {
			postings[col] = append(postings[col], posting{row: i, value: r.Values[k]})
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := make([]float64, n)
			for i := range next {
				fillRow(m, rows, norms, postings, acc, i)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case next <- i:
		}
	}
	close(next)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return m, nil
}

// fillRow writes sim[i][j] and sim[j][i] for every j >= i. Cells below the
// diagonal of row i belong to earlier rows, so workers never share a cell.
func fillRow(m *Matrix, rows []vectorize.SparseVector, norms []float64, postings [][]posting, acc []float64, i int) {
	if norms[i] == 0 {
		return
	}
	m.data[i*m.n+i] = 1

	r := rows[i]
	touched := make([]int, 0, 64)
	for k, col := range r.Indices {
		v := r.Values[k]
		for _, p := range postings[col] {
			if p.row <= i {
				continue
			}
			if acc[p.row] == 0 {
				touched = append(touched, p.row)
			}
			acc[p.row] += v * p.value
		}
	}

	for _, j := range touched {
		s := acc[j] / (norms[i] * norms[j])
		if s > 1 {
			s = 1
		}
		m.data[i*m.n+j] = s
		m.data[j*m.n+i] = s
		acc[j] = 0
	}
}

// Norm returns the Euclidean norm of v.
func Norm(v vectorize.SparseVector) float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a
// zero vector.
func Cosine(a, b vectorize.SparseVector) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i, j := 0, 0; i < len(a.Indices) && j < len(b.Indices); {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	s := dot / (na * nb)
	if s > 1 {
		s = 1
	}
	return s
}
