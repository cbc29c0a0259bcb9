// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package content holds the static copy served by the API: tips, quotes,
journal prompts, stress questions, video queries, focus instructions and
canned chat replies.

The defaults are embedded from library.yaml. An optional override file
(CONTENT_FILE) is merged on top and hot-reloaded with fsnotify:

	loader, err := content.NewLoader(cfg.ContentFile)
	loader.Watch(ctx)
	defer loader.Close()

	lib := loader.Library()
	tip := lib.TipFor(now)

Daily selection delegates to package wellness, so every accessor is a pure
function of the date.
*/
package content
