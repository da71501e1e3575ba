package site

import (
	"html/template"
	"time"
)

// pageContext is the data handed to the page layout.
type pageContext struct {
	SiteTitle string
	BaseURL   string
	Title     string
	Date      time.Time
	Draft     bool
	Content   template.HTML
}

// indexContext is the data handed to the index layout.
type indexContext struct {
	SiteTitle   string
	Description string
	BaseURL     string
	Entries     []Summary
}

var layoutFuncs = template.FuncMap{
	"isodate": func(t time.Time) string { return t.Format("2006-01-02") },
}

var pageLayout = template.Must(template.New("page").Funcs(layoutFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }} &middot; {{ .SiteTitle }}</title>
</head>
<body>
  <header>
    <nav><a href="{{ .BaseURL }}/">{{ .SiteTitle }}</a></nav>
  </header>
  <main>
    <article>
      <header>
        <h1>{{ .Title }}</h1>
        <p><time datetime="{{ isodate .Date }}">{{ isodate .Date }}</time>{{ if .Draft }} <em>(draft)</em>{{ end }}</p>
      </header>
      {{ .Content }}
    </article>
  </main>
</body>
</html>
`))

var indexLayout = template.Must(template.New("index").Funcs(layoutFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .SiteTitle }}</title>
  {{ if .Description }}<meta name="description" content="{{ .Description }}">{{ end }}
</head>
<body>
  <header>
    <h1>{{ .SiteTitle }}</h1>
  </header>
  <main>
    <ul>
      {{ range .Entries }}
      <li>
        <time datetime="{{ isodate .Date }}">{{ isodate .Date }}</time>
        <a href="{{ $.BaseURL }}/{{ .Slug }}/">{{ .Title }}</a>
      </li>
      {{ end }}
    </ul>
  </main>
</body>
</html>
`))
