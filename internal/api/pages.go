package api

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/meur/gamecatalog/internal/results"
)

type pages struct {
	tpl *template.Template
}

type pageData struct {
	Title   string
	Query   string
	State   string
	Summary string
	Cards   []gameCard
	Actions []results.Action
}

func newPages() *pages {
	tpl := template.Must(template.New("page").Funcs(template.FuncMap{
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
	}).Parse(pageTpl))
	return &pages{tpl: tpl}
}

func (p *pages) render(w http.ResponseWriter, data pageData) {
	// render to a buffer so template errors still produce a clean 500
	var buf bytes.Buffer
	if err := p.tpl.Execute(&buf, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func summary(n int, query string) string {
	count := humanize.Comma(int64(n))
	if query == "" {
		return count + " " + english.PluralWord(n, "game", "")
	}
	return count + " " + english.PluralWord(n, "result", "") + " for “" + query + "”"
}

// handleSearchPage renders the results view for the q parameter
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	snap := s.evaluate(r.URL.Query().Get("q"))

	s.pages.render(w, pageData{
		Title:   "Search",
		Query:   snap.Query,
		State:   snap.State.String(),
		Summary: summary(len(snap.Games), snap.Query),
		Cards:   cards(snap.Games),
		Actions: snap.Actions,
	})
}

// handleBrowsePage renders the unfiltered catalog
func (s *Server) handleBrowsePage(w http.ResponseWriter, r *http.Request) {
	snap := s.evaluate("")

	s.pages.render(w, pageData{
		Title:   "Browse",
		State:   snap.State.String(),
		Summary: summary(len(snap.Games), ""),
		Cards:   cards(snap.Games),
		Actions: snap.Actions,
	})
}

const pageTpl = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}} · Game Catalog</title>
<link rel="stylesheet" href="/assets/catalog.css" />
<header>
  <a href="/browse">Game Catalog</a>
  <form action="/search" method="get" role="search">
    <input type="search" name="q" value="{{.Query}}" placeholder="Search games" aria-label="Search games" />
    <button type="submit">Search</button>
  </form>
</header>

<main data-state="{{.State}}">
  {{if eq .State "empty"}}
  <section class="empty">
    <h2>No games found{{if .Query}} for &ldquo;{{.Query}}&rdquo;{{end}}</h2>
    <p>Try another keyword or look through the whole catalog.</p>
    <div class="actions">
    {{range .Actions}}
      {{if eq .Kind "back"}}<button type="button" data-action="back" onclick="history.back()">{{.Label}}</button>{{end}}
      {{if eq .Kind "browse"}}<a class="button" data-action="browse" href="{{.Path}}">{{.Label}}</a>{{end}}
    {{end}}
    </div>
  </section>
  {{else}}
  <p class="summary">{{.Summary}}</p>
  <ul class="grid">
  {{range .Cards}}
    <li class="card" data-key="{{.ID}}">
      {{if .PreviewURL}}
      <div class="preview">
        <video src="{{.PreviewURL}}" {{if .Thumbnail}}poster="{{.Thumbnail}}"{{end}} muted loop playsinline preload="metadata"></video>
        <div class="controls">
          <button type="button" data-media="play" aria-label="Play preview">▶</button>
          <button type="button" data-media="mute" aria-label="Unmute preview">🔇</button>
          <button type="button" data-media="fullscreen" aria-label="Fullscreen">⛶</button>
        </div>
      </div>
      {{else if .Thumbnail}}
      <img class="thumb" src="{{.Thumbnail}}" alt="" loading="lazy" />
      {{end}}
      <h3>{{.Title}}</h3>
      {{if .Genre}}<p class="genre">{{.Genre}}</p>{{end}}
      {{if .Description}}<p class="description">{{.Description}}</p>{{end}}
      {{if .Badges}}
      <ul class="badges">
        {{range .Badges}}<li class="badge {{.Category}}"><i class="{{.Icon}}" aria-hidden="true"></i>{{.Label}}</li>{{end}}
      </ul>
      {{end}}
      {{if .Players}}<p class="players">{{comma .Players}} players</p>{{end}}
    </li>
  {{end}}
  </ul>
  {{end}}
</main>

<script>
document.querySelectorAll('.preview').forEach(function(p){
  var v = p.querySelector('video');
  p.addEventListener('click', function(e){
    var b = e.target.closest('button[data-media]');
    if (!b) return;
    switch (b.dataset.media) {
    case 'play':
      if (v.paused) { v.play().catch(function(){}); } else { v.pause(); }
      break;
    case 'mute':
      v.muted = !v.muted;
      break;
    case 'fullscreen':
      if (v.requestFullscreen) { v.requestFullscreen().catch(function(){}); }
      break;
    }
  });
  v.addEventListener('play', function(){ p.querySelector('[data-media=play]').textContent = '⏸'; });
  v.addEventListener('pause', function(){ p.querySelector('[data-media=play]').textContent = '▶'; });
  v.addEventListener('volumechange', function(){ p.querySelector('[data-media=mute]').textContent = v.muted ? '🔇' : '🔊'; });
});
</script>
`
