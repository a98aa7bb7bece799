// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/koro"
)

func TestPromiseResolve(t *testing.T) {
	p := koro.NewPromise[int]()
	go p.Resolve(42)
	v, err := p.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestPromiseReject(t *testing.T) {
	p := koro.NewPromise[int]()
	p.Reject(errors.New("nope"))
	_, err := p.Await(context.Background())
	require.EqualError(t, err, "nope")
}

func TestPromiseSettlesOnce(t *testing.T) {
	p := koro.NewPromise[int]()
	p.Resolve(1)
	p.Resolve(2)
	p.Reject(errors.New("late"))
	v, err := p.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestPromiseAwaitContext(t *testing.T) {
	p := koro.NewPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGoSuccess(t *testing.T) {
	p := koro.Go(func() (string, error) { return "v", nil })
	v, err := p.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestGoError(t *testing.T) {
	p := koro.Go(func() (string, error) { return "", errors.New("bad") })
	_, err := p.Await(context.Background())
	require.EqualError(t, err, "bad")
}

func TestGoRecoversPanic(t *testing.T) {
	p := koro.Go(func() (string, error) { panic(errors.New("exploded")) })
	_, err := p.Await(context.Background())
	require.EqualError(t, err, "exploded")

	p2 := koro.Go(func() (string, error) { panic("raw panic") })
	_, err = p2.Await(context.Background())
	require.ErrorContains(t, err, "raw panic")
}

func TestGoGroup(t *testing.T) {
	var eg errgroup.Group
	ok := koro.GoGroup(&eg, func() (int, error) { return 5, nil })
	bad := koro.GoGroup(&eg, func() (int, error) { return 0, errors.New("group error") })

	v, err := ok.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	_, err = bad.Await(context.Background())
	require.EqualError(t, err, "group error")
	require.EqualError(t, eg.Wait(), "group error")
}

func TestResolvedRejected(t *testing.T) {
	v, err := koro.Resolved(3).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	_, err = koro.Rejected[int](errors.New("e")).Await(context.Background())
	require.EqualError(t, err, "e")
}

func TestAfter(t *testing.T) {
	start := time.Now()
	_, err := koro.After(20 * time.Millisecond).Await(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}
