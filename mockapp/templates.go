package mockapp

import (
	"html/template"
)

type fieldKind int

const (
	textField fieldKind = iota
	textAreaField
	selectField
)

type field struct {
	name     string
	kind     fieldKind
	options  []string
	required bool
}

type formField struct {
	Name     string
	Label    string
	Value    string
	TextArea bool
	Select   bool
	Options  []string
}

type formPage struct {
	Title  string
	Action string
	Put    bool
	Remote bool
	Errors []string
	Fields []formField
}

type listPage struct {
	Title   string
	NewPath string
	Items   []listItem
}

type listItem struct {
	Label string
	Path  string
}

type showPage struct {
	Title    string
	Fields   []formField
	EditPath string
	ListPath string
}

var pageTemplates = template.Must(template.New("layout").Parse(`
{{define "head"}}<!DOCTYPE html>
<html><head><title>{{.}}</title></head><body>
<h1>{{.}}</h1>{{end}}
{{define "foot"}}</body></html>{{end}}

{{define "form"}}{{template "head" .Title}}
{{range .Errors}}<p class="error">{{.}}</p>
{{end}}<form action="{{.Action}}" method="post"{{if .Remote}} data-remote="true"{{end}}>
{{if .Put}}  <input type="hidden" name="_method" value="put">
{{end}}{{range .Fields}}  <label>{{.Label}}</label>
{{if .TextArea}}  <textarea name="{{.Name}}">{{.Value}}</textarea>
{{else if .Select}}  <select name="{{.Name}}">{{$v := .Value}}{{range .Options}}<option{{if eq . $v}} selected{{end}}>{{.}}</option>{{end}}</select>
{{else}}  <input type="text" name="{{.Name}}" value="{{.Value}}">
{{end}}{{end}}  <input type="submit" value="Save">
</form>
{{template "foot"}}{{end}}

{{define "list"}}{{template "head" .Title}}
<ul>
{{range .Items}}  <li><a href="{{.Path}}">{{.Label}}</a></li>
{{end}}</ul>
<a href="{{.NewPath}}">New</a>
{{template "foot"}}{{end}}

{{define "show"}}{{template "head" .Title}}
<dl>
{{range .Fields}}  <dt>{{.Label}}</dt><dd class="{{.Label}}">{{.Value}}</dd>
{{end}}</dl>
<a href="{{.EditPath}}">Edit</a> <a href="{{.ListPath}}">Back</a>
{{template "foot"}}{{end}}

{{define "home"}}{{template "head" "Home"}}
<p>{{if .}}Signed in as <span class="login">{{.}}</span>{{else}}Not signed in{{end}}</p>
{{template "foot"}}{{end}}

{{define "ajax"}}<div id="{{.}}" class="saved">saved</div>{{end}}
`))
