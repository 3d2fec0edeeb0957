// Package view renders the portal's HTML pages.  The markup is deliberately
// small: each page carries the form fields, links and rows the workflows
// need and nothing else.  Styling and client-side behavior are out of scope.
package view

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/labstack/echo/v4"

	"github.com/asdominguez/abstracts-portal/internal/model"
)

const layout = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Abstract Portal</title></head>
<body>
<h1>Abstract Portal</h1>
{{block "content" .}}{{end}}
</body>
</html>`

var pages = map[string]*template.Template{}

// define parses a page body into its own copy of the layout; the body
// overrides the layout's empty "content" block.
func define(name, content string) {
	t := template.Must(template.New(name).Parse(layout))
	template.Must(t.New("content").Parse(content))
	pages[name] = t
}

func init() {
	define("index", `
<p>Welcome to the conference abstract review portal.</p>
<a href="/login">Login</a>`)

	define("login", `
<h2>Login</h2>
<form method="POST" action="/login">
  <label>Email or username <input type="text" name="identifier"></label>
  <label>Password <input type="password" name="password"></label>
  <button type="submit">Login</button>
</form>
<a href="/register">Create New Account</a>`)

	define("register", `
<h2>Create New Account</h2>
<ul>
  <li><a href="/register/student">Student</a></li>
  <li><a href="/register/reviewer">Reviewer</a></li>
  <li><a href="/register/committee">Committee</a></li>
</ul>`)

	define("register-student", `
<h2>Student Registration</h2>
<form method="POST" action="/register/student">
  <label>Email <input type="email" name="email"></label>
  <label>Password <input type="password" name="password"></label>
  <button type="submit">Register</button>
</form>`)

	define("register-reviewer", `
<h2>Reviewer Registration</h2>
<form method="POST" action="/register/reviewer">
  <label>Email <input type="email" name="email"></label>
  <label>Password <input type="password" name="password"></label>
  <label>Subject area <input type="text" name="subjectArea"></label>
  <button type="submit">Register</button>
</form>`)

	define("register-committee", `
<h2>Committee Registration</h2>
<form method="POST" action="/register/committee">
  <label>Email <input type="email" name="email"></label>
  <label>Password <input type="password" name="password"></label>
  <label>Subject area <input type="text" name="subjectArea"></label>
  <button type="submit">Register</button>
</form>`)

	define("dashboard-student", `
<h2>Student Dashboard</h2>
<p>Submit and track your abstracts here.</p>
<form method="POST" action="/logout"><button type="submit">Logout</button></form>`)

	define("dashboard-reviewer", `
<h2>Reviewer Dashboard</h2>
<a href="/reviewer/application">Volunteer application</a>
<form method="POST" action="/logout"><button type="submit">Logout</button></form>`)

	define("dashboard-admin", `
<h2>Admin Dashboard</h2>
<a href="/admin/accounts">Manage accounts</a>
<form method="POST" action="/logout"><button type="submit">Logout</button></form>`)

	define("dashboard-generic", `
<h2>Dashboard</h2>
<p>Your account is awaiting a decision. Check back after approval.</p>
<form method="POST" action="/logout"><button type="submit">Logout</button></form>`)

	define("dashboard-committee", `
<h2>Committee Dashboard</h2>
<h3>Pending applications</h3>
<table>
{{range .Applications}}
<tr>
  <td>{{.Name}}</td><td>{{.Department}}</td><td>{{.Email}}</td>
  <td>{{range .Roles}}{{.}} {{end}}</td>
  <td><form method="POST" action="/committee/applications/{{.ID}}/approve"><button type="submit">Approve</button></form></td>
  <td><form method="POST" action="/committee/applications/{{.ID}}/deny"><button type="submit">Deny</button></form></td>
</tr>
{{end}}
</table>
<h3>Pending accounts</h3>
<table>
{{range .Accounts}}
<tr>
  <td>{{.AccountType}}</td><td>{{.Email}}</td><td>{{.SubjectArea}}</td>
  <td><form method="POST" action="/committee/accounts/{{.ID}}/approve"><button type="submit">Approve</button></form></td>
  <td><form method="POST" action="/committee/accounts/{{.ID}}/deny"><button type="submit">Deny</button></form></td>
</tr>
{{end}}
</table>
<form method="POST" action="/logout"><button type="submit">Logout</button></form>`)

	define("application-form", `
<h2>Reviewer Volunteer Application</h2>
<form method="POST" action="/reviewer/application">
  <label>Name <input type="text" name="name"></label>
  <label>Department <input type="text" name="department"></label>
  <label>Email <input type="email" name="email"></label>
  <fieldset>
    <legend>Roles</legend>
    {{range .Roles}}<label><input type="checkbox" name="roles" value="{{.}}"> {{.}}</label>{{end}}
  </fieldset>
  <button type="submit">Submit</button>
</form>`)

	define("application-submitted", `
<h2>Reviewer Volunteer Application</h2>
<p>Application already submitted. The committee will review it.</p>
<a href="/dashboard">Back to dashboard</a>`)

	define("admin-accounts", `
<h2>Manage Accounts</h2>
{{range .Groups}}
<h3>{{.Type}}</h3>
<table>
{{range .Accounts}}
<tr>
  <td>{{.Email}}</td><td>{{.Username}}</td><td>{{.Status}}</td>
  <td><form method="POST" action="/admin/accounts/{{.ID}}/delete"><button type="submit">Delete</button></form></td>
</tr>
{{end}}
</table>
{{end}}`)
}

// CommitteeData feeds the committee dashboard's two decision queues.
type CommitteeData struct {
	Applications []model.Application
	Accounts     []model.Account
}

// AccountGroup is one account-type section of the admin manage page.
type AccountGroup struct {
	Type     model.AccountType
	Accounts []model.Account
}

// AdminAccountsData feeds the admin manage-accounts page.
type AdminAccountsData struct {
	Groups []AccountGroup
}

// ApplicationFormData feeds the reviewer application form.
type ApplicationFormData struct {
	Roles []string
}

// Render executes the named page into the response with the given status.
func Render(c echo.Context, code int, name string, data any) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTML(code, buf.String())
}
