package notifx

// Built-in template names. Each has an .html and a .txt variant.
const (
	TemplateOTP           = "otp"
	TemplateWelcome       = "welcome"
	TemplatePasswordReset = "password_reset"
)

const (
	subjectOTP           = "Your OTP for Jamalpur Chamber of Commerce"
	subjectWelcome       = "Welcome to Jamalpur Chamber of Commerce & Industry"
	subjectPasswordReset = "Password Reset - Jamalpur Chamber of Commerce"
)

const footerHTML = `
    <hr style="margin: 30px 0;">
    <p style="color: #7f8c8d; font-size: 12px;">
      Jamalpur Chamber of Commerce &amp; Industry<br>
      Accelerating the Trillion Dollar Journey
    </p>
  </div>`

var builtinTemplates = map[string]string{
	TemplateOTP + ".html": `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #2c3e50;">Jamalpur Chamber of Commerce &amp; Industry</h2>
    <p>Your One-Time Password (OTP) is:</p>
    <div style="background-color: #f8f9fa; padding: 20px; text-align: center; margin: 20px 0;">
      <h1 style="color: #e74c3c; font-size: 32px; margin: 0;">{{.Code}}</h1>
    </div>
    <p>This OTP is valid for 10 minutes. Please do not share it with anyone.</p>
    <p>If you didn't request this OTP, please ignore this email.</p>` + footerHTML,
	TemplateOTP + ".txt": `Your OTP for Jamalpur Chamber of Commerce is: {{.Code}}. This OTP is valid for 10 minutes.`,

	TemplateWelcome + ".html": `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #2c3e50;">Welcome to Jamalpur Chamber of Commerce &amp; Industry</h2>
    <p>Dear {{.Name}},</p>
    <p>Welcome to the Jamalpur Chamber of Commerce &amp; Industry! We're excited to have you as a member of our community.</p>
    <p>Your account has been successfully created and you can now access all our services.</p>
    <p>If you have any questions, please don't hesitate to contact us.</p>` + footerHTML,
	TemplateWelcome + ".txt": `Welcome to Jamalpur Chamber of Commerce & Industry, {{.Name}}! Your account has been successfully created.`,

	TemplatePasswordReset + ".html": `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #2c3e50;">Password Reset Request</h2>
    <p>You have requested to reset your password for your Jamalpur Chamber of Commerce account.</p>
    <p>Click the button below to reset your password:</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.ResetURL}}" style="background-color: #3498db; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
    </div>
    <p>If the button doesn't work, copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #3498db;">{{.ResetURL}}</p>
    <p>This link will expire in 1 hour for security reasons.</p>
    <p>If you didn't request this password reset, please ignore this email.</p>` + footerHTML,
	TemplatePasswordReset + ".txt": `Password Reset Request for Jamalpur Chamber of Commerce. Click here to reset: {{.ResetURL}}`,
}

func registerBuiltins(r *TemplateRegistry) {
	for name, body := range builtinTemplates {
		// Built-ins are constants; a parse error here is a programming mistake.
		if err := r.Register(name, body); err != nil {
			panic(err)
		}
	}
}
