package viewcraft

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/viewcraft/collection"
	"git.home.luguber.info/inful/viewcraft/document"
	"git.home.luguber.info/inful/viewcraft/engine"
	vcerrors "git.home.luguber.info/inful/viewcraft/errors"
	"git.home.luguber.info/inful/viewcraft/frontmatter"
	"git.home.luguber.info/inful/viewcraft/internal/logfields"
	"git.home.luguber.info/inful/viewcraft/middleware"
)

// Render resolves target and renders it with the given call-site locals.
//
// A target matching a renderable document's key renders that document. A
// raw template string with no match renders as an inline, unnamed document
// under the default engine. A path-like target (bare name with an
// extension) that matches nothing fails with a notfound error; it never
// silently renders to empty content.
func (t *Templates) Render(target string, locals map[string]any) (string, error) {
	doc, err := t.resolveTarget(target)
	if err != nil {
		return "", t.fail(err)
	}
	return t.RenderDocument(doc, locals)
}

// RenderWith is the callback form of Render.
func (t *Templates) RenderWith(target string, locals map[string]any, cb func(string, error)) {
	cb(t.Render(target, locals))
}

// RenderDocument runs the full pipeline against a document record:
// preRender, context merge, layout application (preLayout/postLayout),
// compile if needed (preCompile/postCompile), engine render, postRender.
// The rendered output replaces the document's content.
func (t *Templates) RenderDocument(doc *document.Document, locals map[string]any) (string, error) {
	start := time.Now()

	engName := t.engineName(doc)
	eng, ok := t.engines.Lookup(engName)
	if !ok {
		return "", t.fail(vcerrors.NotFound("no engine registered for %q", displayExt(engName)).
			WithContext("path", doc.Path))
	}

	if err := t.dispatchOnce(middleware.PreRender, doc); err != nil {
		return "", t.fail(err)
	}

	ctx := t.merger.BuildContext(doc, locals)

	if err := t.dispatchOnce(middleware.PreLayout, doc); err != nil {
		return "", t.fail(err)
	}
	if _, err := t.resolver.Apply(doc, ctx); err != nil {
		return "", t.fail(err)
	}
	t.recorder.LayoutApplied(len(doc.LayoutStack))
	if err := t.dispatchOnce(middleware.PostLayout, doc); err != nil {
		return "", t.fail(err)
	}

	if doc.Fn == nil {
		if compiler, ok := eng.(engine.Compiler); ok {
			if err := t.dispatchOnce(middleware.PreCompile, doc); err != nil {
				return "", t.fail(err)
			}
			fn, err := compiler.Compile(doc.Content, ctx)
			t.recorder.CompileCompleted(engName, err == nil)
			if err != nil {
				return "", t.fail(vcerrors.Engine(err, "compile failed").WithContext("path", doc.Path))
			}
			doc.Fn = fn
			if err := t.dispatchOnce(middleware.PostCompile, doc); err != nil {
				return "", t.fail(err)
			}
		} else {
			// Engines without a compile capability render raw content.
			doc.Fn = doc.Content
		}
	}

	out, err := eng.Render(doc.Fn, ctx)
	t.recorder.RenderCompleted(engName, time.Since(start), err == nil)
	if err != nil {
		return "", t.fail(vcerrors.Engine(err, "render failed").WithContext("path", doc.Path))
	}

	doc.Content = out
	if err := t.dispatchOnce(middleware.PostRender, doc); err != nil {
		return "", t.fail(err)
	}

	t.logger.Debug("rendered",
		logfields.Path(doc.Path),
		logfields.Engine(engName),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return out, nil
}

// resolveTarget maps a render target to a document: a known renderable
// key, or an inline unnamed document for raw template content.
func (t *Templates) resolveTarget(target string) (*document.Document, error) {
	if doc, err := t.registry.FindFirst(collection.Renderable, target); err == nil {
		return doc, nil
	}

	if looksLikeKey(target) {
		return nil, vcerrors.NotFound("no renderable document matches %q", target)
	}

	data, body, err := frontmatter.Parse(target)
	if err != nil {
		return nil, vcerrors.Wrap(err, vcerrors.CategoryConfig, "invalid front matter in inline document")
	}
	doc := document.New("inline-"+uuid.NewString()+"."+t.defaultExt, body)
	doc.Data = data
	return doc, nil
}

// looksLikeKey reports whether target reads as a document key (a bare
// path with an extension) rather than raw template content.
func looksLikeKey(target string) bool {
	if strings.ContainsAny(target, " \t\n{<") {
		return false
	}
	return path.Ext(target) != ""
}

func (t *Templates) engineName(doc *document.Document) string {
	if doc.Options.Engine != "" {
		return doc.Options.Engine
	}
	return strings.TrimPrefix(path.Ext(doc.Path), ".")
}

func displayExt(ext string) string {
	if ext == "" {
		return engine.Wildcard
	}
	return ext
}
