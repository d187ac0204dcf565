package template

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kstorelabs/notify/pkg/notification"
)

// defaultTemplates are created on startup when missing, so a fresh
// deployment can dispatch the common notification types without manual
// template management.
var defaultTemplates = []Template{
	{
		Name:            "WELCOME_EMAIL",
		Type:            notification.TypeWelcome,
		Channel:         notification.ChannelEmail,
		SubjectTemplate: "Welcome to K-Store, {{firstName}}!",
		ContentTemplate: `<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h1 style="color: #333;">Welcome to K-Store!</h1>
		<p>Dear {{firstName}} {{lastName}},</p>
		<p>Thank you for joining K-Store! We're excited to have you as part of our community.</p>
		<p>Your account has been successfully created with email: <strong>{{email}}</strong></p>
		<p>Start exploring our amazing products and enjoy shopping with us!</p>
		<p>Best regards,<br>The K-Store Team</p>
	</div>
</body>
</html>`,
		Active: true,
	},
	{
		Name:            "ORDER_CONFIRMATION",
		Type:            notification.TypeOrderConfirmation,
		Channel:         notification.ChannelEmail,
		SubjectTemplate: "Order Confirmation - #{{orderNumber}}",
		ContentTemplate: `<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h1 style="color: #4CAF50;">Order Confirmed!</h1>
		<p>Hi {{customerName}},</p>
		<p>Thank you for your order! We've received your order and it's being processed.</p>
		<div style="background: #f5f5f5; padding: 15px; margin: 20px 0;">
			<h3>Order Details:</h3>
			<p><strong>Order Number:</strong> {{orderNumber}}</p>
			<p><strong>Order Date:</strong> {{orderDate}}</p>
			<p><strong>Total Amount:</strong> ${{totalAmount}}</p>
			<p><strong>Delivery Address:</strong> {{deliveryAddress}}</p>
		</div>
		<p>You'll receive another email when your order ships.</p>
		<p>Thanks for shopping with K-Store!</p>
	</div>
</body>
</html>`,
		Active: true,
	},
	{
		Name:            "PASSWORD_RESET",
		Type:            notification.TypePasswordReset,
		Channel:         notification.ChannelEmail,
		SubjectTemplate: "Reset Your K-Store Password",
		ContentTemplate: `<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h1 style="color: #ff6b6b;">Password Reset Request</h1>
		<p>Hi {{firstName}},</p>
		<p>We received a request to reset your password for your K-Store account.</p>
		<p>Click the link below to reset your password:</p>
		<a href="{{resetLink}}" style="background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block; margin: 20px 0;">Reset Password</a>
		<p>This link will expire in 24 hours.</p>
		<p>If you didn't request this password reset, please ignore this email.</p>
		<p>Best regards,<br>The K-Store Team</p>
	</div>
</body>
</html>`,
		Active: true,
	},
	{
		Name:            "ORDER_SHIPPED_SMS",
		Type:            notification.TypeOrderShipped,
		Channel:         notification.ChannelSMS,
		SubjectTemplate: "Order Shipped",
		ContentTemplate: "Hi {{customerName}}, your K-Store order #{{orderNumber}} has been shipped! Track: {{trackingUrl}}",
		Active:          true,
	},
	{
		Name:            "LOW_STOCK_ALERT",
		Type:            notification.TypeSystemAlert,
		Channel:         notification.ChannelEmail,
		SubjectTemplate: "Low Stock Alert - {{productName}}",
		ContentTemplate: `<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h1 style="color: #ff9800;">Low Stock Alert</h1>
		<p>Hi Admin,</p>
		<p>The following product is running low on stock:</p>
		<div style="background: #fff3cd; padding: 15px; margin: 20px 0; border-left: 4px solid #ff9800;">
			<h3>{{productName}}</h3>
			<p><strong>Product ID:</strong> {{productId}}</p>
			<p><strong>Current Stock:</strong> {{currentStock}}</p>
			<p><strong>Minimum Threshold:</strong> {{minThreshold}}</p>
		</div>
		<p>Please restock this item to avoid stock-out situations.</p>
	</div>
</body>
</html>`,
		Active: true,
	},
	{
		Name:            "ORDER_UPDATE_PUSH",
		Type:            notification.TypeOrderConfirmation,
		Channel:         notification.ChannelPush,
		SubjectTemplate: "Order Update",
		ContentTemplate: "Your order #{{orderNumber}} status has been updated to: {{orderStatus}}",
		Active:          true,
	},
}

// SeedDefaults creates the built-in templates that do not exist yet.
// Existing templates are never overwritten.
func SeedDefaults(ctx context.Context, store Store, log *slog.Logger) error {
	for _, tpl := range defaultTemplates {
		t := tpl
		err := store.Create(ctx, &t)
		if errors.Is(err, ErrTemplateExists) {
			continue
		}
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "created default notification template", slog.String("template", t.Name))
	}
	return nil
}
