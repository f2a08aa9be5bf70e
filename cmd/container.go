// cmd/container.go
//
// Composition root. Builds configuration, the email provider and the object
// store, and hands them to the delivery service and the upload pipeline.
// This is the only place that knows about every provider package.
package main

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jamalpur-chamber/outbound/pkg/asyncx"
	"github.com/jamalpur-chamber/outbound/pkg/config"
	"github.com/jamalpur-chamber/outbound/pkg/logx"
	"github.com/jamalpur-chamber/outbound/pkg/mediax"
	"github.com/jamalpur-chamber/outbound/pkg/mediax/mediaxcloudinary"
	"github.com/jamalpur-chamber/outbound/pkg/mediax/mediaxs3"
	"github.com/jamalpur-chamber/outbound/pkg/notifx"
	"github.com/jamalpur-chamber/outbound/pkg/notifx/notifxbrevo"
	"github.com/jamalpur-chamber/outbound/pkg/notifx/notifxconsole"
	"github.com/jamalpur-chamber/outbound/pkg/notifx/notifxresend"
	"github.com/jamalpur-chamber/outbound/pkg/notifx/notifxses"
)

// Container holds the configured services.
type Container struct {
	Config *config.Config

	Mail  *notifx.Service
	Media *mediax.Pipeline
}

// NewContainer wires every service from cfg. Missing credentials disable a
// service instead of failing startup.
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	logx.Info("Initializing application container...")

	c := &Container{Config: cfg}

	c.initMail(ctx)
	c.initMedia(ctx)

	logx.Info("Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Email delivery
// ---------------------------------------------------------------------------

func (c *Container) initMail(ctx context.Context) {
	mc := c.Config.Mail

	var provider notifx.EmailSender
	if mc.Enabled() {
		switch mc.Provider {
		case config.MailProviderBrevo:
			provider = notifxbrevo.NewProvider(mc.BrevoAPIKey, mc.BrevoTimeout,
				notifxbrevo.WithBaseURL(mc.BrevoBaseURL))

		case config.MailProviderResend:
			provider = notifxresend.NewResendProvider(mc.ResendAPIKey)

		case config.MailProviderSES:
			awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(mc.AWSRegion))
			if err != nil {
				logx.WithError(err).Error("Unable to load AWS SDK config, email disabled")
				break
			}
			provider = notifxses.NewSESProvider(ses.NewFromConfig(awsCfg))

		case config.MailProviderConsole:
			provider = notifxconsole.NewConsoleProvider(logx.GetDefaultLogger())
		}
	}

	c.Mail = notifx.NewService(mc, provider)
}

// ---------------------------------------------------------------------------
// Media ingestion
// ---------------------------------------------------------------------------

func (c *Container) initMedia(ctx context.Context) {
	mc := c.Config.Media

	var store mediax.ObjectStore
	switch mc.Provider {
	case config.MediaProviderCloudinary:
		// URL derivation only needs the cloud name.
		if mc.CloudinaryCloudName != "" {
			s, err := mediaxcloudinary.New(mc.CloudinaryCloudName, mc.CloudinaryAPIKey, mc.CloudinaryAPISecret)
			if err != nil {
				logx.WithError(err).Error("Unable to configure Cloudinary, uploads disabled")
				break
			}
			store = s
		}

	case config.MediaProviderS3:
		if mc.Enabled() {
			s, err := mediaxs3.New(ctx, mediaxs3.Options{
				Region:    mc.AWSRegion,
				Bucket:    mc.S3Bucket,
				Endpoint:  mc.S3Endpoint,
				PublicURL: mc.S3PublicURL,
			})
			if err != nil {
				logx.WithError(err).Error("Unable to configure S3, uploads disabled")
				break
			}
			store = s
		}

	default:
		logx.WithField("provider", mc.Provider).Warn("Unknown MEDIAX_PROVIDER, uploads disabled")
	}

	p, err := mediax.NewPipeline(mc, store)
	if err != nil {
		logx.Fatalf("Failed to initialize upload pipeline: %v", err)
	}
	c.Media = p
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// StartBackgroundServices reports staging files left behind by an earlier
// process. They are never removed automatically.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("Starting background services...")

	asyncx.DoCtx(ctx, func(ctx context.Context) {
		n, err := c.Media.ReportLingering(ctx)
		if err != nil {
			return
		}
		if n > 0 {
			logx.WithField("count", n).Warn("Staging directory is not empty; a previous cleanup failed")
		}
	})
}
