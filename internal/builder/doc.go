/*
Package builder turns a description model (defined in the 'config'
package) into an assembled project.Project the engine can evaluate.

Construction is a multi-phase process:

 1. Declarations: atoms and keys are registered first, so that conditions
    and values anywhere in the description can reference them.

 2. Node Creation: every part declaration becomes a node of a dependency
    graph. Units discovered through `sources` globs become nodes too.

 3. Dependency Linking: the `deps` list of each declaration becomes
    edges, and every other reference is validated. Unknown names are
    reported with the closest declared name. This work is delegated to the
    generic `dag` package, which also rejects cycles.

 4. Construction: parts are constructed in topological order, so each
    part is created after the parts it depends on, and handed to
    project.New together with the project-wide arguments, atom overrides
    and settings.

Every failure is a *DeclError naming the declaration and its source
range. Failures within a phase are aggregated; a failing phase stops the
build.
*/
package builder
