package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	framemeta "github.com/swdee/go-framemeta"
	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/codec"
	"github.com/swdee/go-framemeta/config"
	"github.com/swdee/go-framemeta/logging"
	"github.com/swdee/go-framemeta/query"
	"github.com/swdee/go-framemeta/telemetry"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	configFile := flag.String("c", "config.yaml", "Host configuration file")

	flag.Parse()

	cfg, err := config.Load(*configFile)

	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := cfg.ApplyLogLevel(); err != nil {
		log.Fatalf("apply log level: %v", err)
	}

	logger := logging.NewLogger("pipeline")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, cfg.Telemetry, logger)

	if err != nil {
		log.Fatalf("init telemetry: %v", err)
	}

	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	// assemble a batch of frames as a source stage would
	batch := framemeta.NewVideoFrameBatch()

	for i := int64(1); i <= 4; i++ {
		batch.Add(i, framemeta.GenFrame())
	}

	// a downstream stage ships its results as an update
	update := framemeta.NewVideoFrameUpdate()
	update.AddObjectAttribute(0, attribute.New("classifier", "color",
		attribute.String("red").WithConfidence(0.7)))

	for _, f := range batch.Frames() {
		if err := f.Update(update); err != nil {
			log.Fatalf("apply update: %v", err)
		}
	}

	// fan a query out over the whole batch
	views := batch.AccessObjects(query.AttributeDefined("classifier", "color"))

	for _, id := range batch.IDs() {
		logger.Info("classified objects",
			zap.Int64("frame", id),
			zap.Int("count", views[id].Len()),
		)
	}

	// ship the batch with the codec settings from the config file
	c := cfg.Codec.NewCodec()

	data, err := c.Encode(codec.NewVideoFrameBatchMessage(batch))

	if err != nil {
		log.Fatalf("encode batch: %v", err)
	}

	logger.Info("batch encoded", zap.Int("bytes", len(data)))
}
