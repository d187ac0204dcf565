package email

// Config holds transactional email configuration.
// The Postmark tokens are optional so development environments can run
// with the file-based dev sender instead of a live account.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"EMAIL_SENDER,required"`
	ReplyToEmail         string `env:"EMAIL_REPLY_TO,required"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}
