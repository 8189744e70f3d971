package mail

import (
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailService struct {
	dialer *gomail.Dialer
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")
	return &MailService{
		dialer: gomail.NewDialer(host, port, user, pass),
	}
}

func (m *MailService) SendNucleusInviteMail(to, inviteLink string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", os.Getenv("SMTP_USER"))
	message.SetHeader("To", to)
	message.SetHeader("Subject", "Приглашение в семейное ядро")
	message.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f5f5f5;">
			<h2 style="color: #333; text-align: center;">Приглашение в семейное ядро</h2>
			<p>Здравствуйте,</p>
			<p>Вас пригласили присоединиться к семейному ядру в планировщике задач. Для подтверждения перейдите по ссылке ниже:</p>
			<p style="text-align: center;"><a href="`+inviteLink+`" style="display: inline-block; padding: 10px 20px; background-color: #28a745; color: #fff; text-decoration: none; border-radius: 5px;">Принять приглашение</a></p>
			<p>Если вы еще не зарегистрированы, сначала попросите администратора создать вам аккаунт.</p>
			<p>С уважением, команда Venga.</p>
		</div>
	`)
	return m.dialer.DialAndSend(message)
}

// SendCredentialsMail отправляет новому пользователю сгенерированный пароль
func (m *MailService) SendCredentialsMail(to, name, password string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", os.Getenv("SMTP_USER"))
	message.SetHeader("To", to)
	message.SetHeader("Subject", "Доступ к семейному планировщику задач")
	message.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f5f5f5;">
			<h2 style="color: #333; text-align: center;">Аккаунт создан</h2>
			<p>Здравствуйте, `+name+`!</p>
			<p>Для вас создан аккаунт в семейном планировщике задач. Данные для входа:</p>
			<p style="text-align: center; font-size: 18px;"><b>`+to+`</b></p>
			<p style="text-align: center; font-size: 18px;"><b>`+password+`</b></p>
			<p>После первого входа смените пароль в настройках профиля.</p>
			<p>С уважением, команда Venga.</p>
		</div>
	`)
	return m.dialer.DialAndSend(message)
}
