// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the chatline TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. Every state that is shown in color also carries an ASCII shape
indicator ([OK], [X], [*], [ ]) so it reads without color.

# Status Treatments

The status indicator has two treatments:

	positive - Emerald with [*], for a signed-in session
	pending  - Amber with [ ], for everything else

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	fmt.Println(styles.RenderStatusLabel("Authenticated", true))
*/
package styles
