package component

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	appsvc "snipx-service/ddd/application/app"
	"snipx-service/ddd/application/cqe"
	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/config"
	pkgkafka "snipx-service/pkg/kafka"
	"snipx-service/pkg/logger"
	"snipx-service/pkg/manager"
)

func init() {
	manager.RegisterComponentPlugin(&ProcessRequestConsumerPlugin{})
}

// ProcessRequest is the message body on the process-requests topic.
type ProcessRequest struct {
	VideoID string               `json:"video_id"`
	UserID  string               `json:"user_id"`
	Options vo.ProcessingOptions `json:"options"`
}

type ProcessRequestConsumerPlugin struct{}

func (p *ProcessRequestConsumerPlugin) Name() string { return "processRequestConsumer" }

// MustCreateComponent returns nil when Kafka is disabled.
func (p *ProcessRequestConsumerPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := config.GetGlobalConfig()
	if deps != nil && deps.Config != nil {
		cfg = deps.Config
	}
	if cfg == nil || !cfg.Kafka.Enabled || cfg.Kafka.Topics.ProcessRequests == "" {
		return nil
	}
	var app appsvc.VideoApp
	if deps != nil {
		if v, ok := deps.VideoAppService.(appsvc.VideoApp); ok {
			app = v
		}
	}
	if app == nil {
		app = appsvc.DefaultVideoApp()
	}
	topic, group := cfg.Kafka.Topics.ProcessRequests, cfg.Kafka.GroupID
	if err := pkgkafka.DefaultClient().EnsureTopic(topic, 1, 1); err != nil {
		logger.Warnf("ensure kafka topic failed topic=%s error=%v", topic, err)
	}
	return NewProcessRequestConsumer(app, pkgkafka.DefaultClient().Reader(topic, group), ConsumerPolicy{
		CommitOnDecodeError: cfg.Kafka.CommitOnDecodeError,
	})
}

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// ConsumerPolicy decides whether undecodable messages are committed (dropped) or redelivered.
// A decoded request is always committed once Process returns: a failed run is already
// recorded on the video and is never retried automatically.
type ConsumerPolicy struct {
	CommitOnDecodeError bool
}

type processRequestConsumer struct {
	app    appsvc.VideoApp
	reader MessageReader
	policy ConsumerPolicy

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewProcessRequestConsumer(app appsvc.VideoApp, reader MessageReader, policy ConsumerPolicy) manager.Component {
	return &processRequestConsumer{app: app, reader: reader, policy: policy}
}

func (c *processRequestConsumer) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.reader.Close()
		c.loop(ctx)
	}()
	return nil
}

func (c *processRequestConsumer) loop(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			logger.Warnf("Kafka fetch error error=%v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if c.handle(ctx, msg) {
			if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				logger.Warnf("Kafka commit failed offset=%d error=%v", msg.Offset, err)
			}
		}
	}
}

// handle runs one request and reports whether its offset should be committed.
func (c *processRequestConsumer) handle(ctx context.Context, msg kafkago.Message) bool {
	req, err := decodeProcessRequest(msg.Value)
	if err != nil {
		logger.Warnf("Kafka process request rejected offset=%d error=%v", msg.Offset, err)
		return c.policy.CommitOnDecodeError
	}
	logger.Infof("Kafka process request received video_id=%s user_id=%s", req.VideoID, req.UserID)

	video, err := c.app.Process(ctx, &cqe.ProcessVideoCqe{
		UserID:  req.UserID,
		VideoID: req.VideoID,
		Options: req.Options,
	})
	if err != nil {
		logger.Warnf("Kafka process request failed video_id=%s error=%v", req.VideoID, err)
		return true
	}
	logger.Infof("Kafka process request done video_id=%s status=%s", video.ID, video.Status)
	return true
}

func decodeProcessRequest(raw []byte) (*ProcessRequest, error) {
	var req ProcessRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if req.VideoID == "" || req.UserID == "" {
		return nil, errors.New("video_id and user_id are required")
	}
	return &req, nil
}

func (c *processRequestConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}

func (c *processRequestConsumer) GetName() string { return "processRequestConsumer" }
