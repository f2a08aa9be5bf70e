package notifx

// SendOptions holds optional configuration for a send operation.
type SendOptions struct {
	// Tags are forwarded to providers that support message tagging.
	Tags []string
}

// Option is a functional option for send operations.
type Option func(*SendOptions)

// WithTags labels the message with provider-side tags.
func WithTags(tags ...string) Option {
	return func(o *SendOptions) {
		o.Tags = append(o.Tags, tags...)
	}
}

// ApplyOptions folds opts into a SendOptions value. Providers call it.
func ApplyOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}
