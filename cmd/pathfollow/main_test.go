package main

import (
	"context"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestRunPipeline(t *testing.T) {
	logger := golog.NewTestLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	test.That(t, runPipeline(ctx, "testdata/follower.yaml", logger), test.ShouldBeNil)
}

func TestRunPipelineBadConfig(t *testing.T) {
	logger := golog.NewTestLogger(t)
	err := runPipeline(context.Background(), "testdata/missing.yaml", logger)
	test.That(t, err, test.ShouldNotBeNil)
}
