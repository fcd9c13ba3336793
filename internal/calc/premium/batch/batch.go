package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"Plinth/internal/calc/footing"
)

const MaxItems = 50

var ErrNoItems = errors.New("no items")

type Input struct {
	Items []footing.Request `json:"items"`
}

// Item is the outcome of one request; Status carries the HTTP status its error maps to.
type Item struct {
	Index   int             `json:"index"`
	Success bool            `json:"success"`
	Status  int             `json:"status,omitempty"`
	Detail  string          `json:"detail,omitempty"`
	Data    *footing.Output `json:"data,omitempty"`
}

type Result struct {
	Count   int    `json:"count"`
	Failed  int    `json:"failed"`
	Results []Item `json:"results"`
}

// Runner designs independent footings on a bounded number of goroutines.
type Runner struct {
	Workers int
	Timeout time.Duration
}

func (r Runner) Run(ctx context.Context, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, ErrNoItems
	}
	if len(in.Items) > MaxItems {
		return Result{}, fmt.Errorf("too many items: %d > %d", len(in.Items), MaxItems)
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	items := make([]Item, len(in.Items))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, req := range in.Items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, req footing.Request) {
			defer wg.Done()
			defer func() { <-sem }()
			items[i] = r.design(ctx, i, req)
		}(i, req)
	}
	wg.Wait()

	res := Result{Count: len(items), Results: items}
	for _, it := range items {
		if !it.Success {
			res.Failed++
		}
	}
	return res, nil
}

func (r Runner) design(ctx context.Context, i int, req footing.Request) Item {
	out, err := footing.Run(ctx, r.Timeout, req)
	if err != nil {
		status, detail := footing.Status(err)
		return Item{Index: i, Status: status, Detail: detail}
	}
	return Item{Index: i, Success: true, Data: out}
}
