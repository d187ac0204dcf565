// Package logger builds configured log/slog loggers and provides typed
// attribute helpers shared across the notification core.
//
// The factory defaults to JSON output at INFO level; development setups use
// WithDevelopment for text output at DEBUG level:
//
//	log := logger.New(logger.WithEnvironment(cfg.Environment, "notifyd"))
//	logger.SetAsDefault(log)
//
// Attribute helpers keep log keys consistent across packages:
//
//	log.InfoContext(ctx, "notification sent",
//	    logger.NotificationID(n.ID),
//	    logger.Channel(string(n.Channel)),
//	)
package logger
