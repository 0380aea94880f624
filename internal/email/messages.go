package email

import (
	"fmt"
	"html/template"
	"strings"
)

// Each email type carries a closed field set so a missing field is a
// compile error, not a blank spot in a delivered message.

// RegistrationConfirmation is sent right after a successful class
// registration.
type RegistrationConfirmation struct {
	UserName      string
	ClassName     string
	ClassDate     string
	ClassTime     string
	Instructor    string
	ClassLocation string
	PaymentAmount float64
}

func (m RegistrationConfirmation) Subject() string {
	return "Registration Confirmed - " + m.ClassName
}

func (m RegistrationConfirmation) HTML() string {
	return render(registrationTmpl, m)
}

// ClassCancellation is sent to every registrant when an admin cancels a
// class.
type ClassCancellation struct {
	UserName      string
	ClassName     string
	ClassDate     string
	ClassTime     string
	Instructor    string
	PaymentAmount float64
}

func (m ClassCancellation) Subject() string {
	return "Class Cancelled - " + m.ClassName
}

func (m ClassCancellation) HTML() string {
	return render(cancellationTmpl, m)
}

// WaiverAgreement is sent when a new account accepts the active waiver.
type WaiverAgreement struct {
	UserName      string
	AgreementDate string
	WaiverHTML    template.HTML
}

func (m WaiverAgreement) Subject() string {
	return "Waiver Agreement Confirmation - Stillpoint Yoga"
}

func (m WaiverAgreement) HTML() string {
	return render(waiverTmpl, m)
}

func render(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		// Templates are package constants; an execute error is a bug.
		panic(fmt.Sprintf("email: render %s: %v", t.Name(), err))
	}
	return b.String()
}

var registrationTmpl = template.Must(template.New("registration").Parse(`
<h2>See you on the mat, {{.UserName}}!</h2>
<p>Your spot in <strong>{{.ClassName}}</strong> is confirmed.</p>
<ul>
  <li>Date: {{.ClassDate}}</li>
  <li>Time: {{.ClassTime}}</li>
  <li>Instructor: {{.Instructor}}</li>
  <li>Location: {{.ClassLocation}}</li>
  <li>Suggested donation: ${{printf "%.2f" .PaymentAmount}}</li>
</ul>
<p>Please arrive ten minutes early. Mats and props are provided.</p>
`))

var cancellationTmpl = template.Must(template.New("cancellation").Parse(`
<h2>Class cancelled</h2>
<p>Hi {{.UserName}}, unfortunately <strong>{{.ClassName}}</strong> on
{{.ClassDate}} at {{.ClassTime}} with {{.Instructor}} has been cancelled.</p>
{{if gt .PaymentAmount 0.0}}<p>If you already paid your ${{printf "%.2f" .PaymentAmount}}
donation, reply to this email and we will sort out a refund or credit.</p>{{end}}
<p>We're sorry for the change of plans.</p>
`))

var waiverTmpl = template.Must(template.New("waiver").Parse(`
<h2>Waiver agreement</h2>
<p>Hi {{.UserName}}, this confirms that you accepted our liability waiver
on {{.AgreementDate}}. A copy is included below for your records.</p>
<hr>
{{.WaiverHTML}}
`))
