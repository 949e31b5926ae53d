package fx

import (
	"github.com/davitran/stories-engine/internal/repositories/interaction"
	"github.com/davitran/stories-engine/internal/repositories/story"
	"github.com/davitran/stories-engine/internal/repositories/viewstate"
	"go.uber.org/fx"
)

var Module = fx.Options(
	story.Module,
	interaction.Module,
	viewstate.Module,
)
