// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	// ServicesRootUnresolvedId: the services package has no directory on disk.
	ServicesRootUnresolvedId Id = iota + 1
	// MigrationsRootUnresolvedId: the migration base module cannot be located.
	MigrationsRootUnresolvedId
	// ServiceImportFailedId: a service module exists but failed to load.
	ServiceImportFailedId
	// MigrationImportFailedId: a migration file has no loadable module.
	MigrationImportFailedId
	// UnknownKindId: a discovery kind other than service or migration was requested.
	UnknownKindId
	// ConfigLoadFailedId: the configuration file could not be loaded.
	ConfigLoadFailedId
	// AssetsNotFoundId: the static asset directory does not exist.
	AssetsNotFoundId
)

type (
	// Id identifies an issue in the catalog.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation or external link.
	HttpLink string

	// Issue is a known failure class with remediation steps, rendered as
	// Markdown in the terminal.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns external links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue with glamour using the given style ("dark",
// "light", "notty" or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	servicesRootUnresolvedIssue = &Issue{
		id: ServicesRootUnresolvedId,
		mdMsg: `
# Cannot find the services directory!

Service discovery starts from the directory of the services package, and
that package has no location on disk.

## Things you can try:
- Run specter from a build that was not made with ` + "`-trimpath`" + `, on the machine it was built on
- Check that the services package is linked into the binary
- Point discovery at your services with ` + "`discovery.extra_roots`" + `:
~~~cue
discovery: extra_roots: ["$HOME/specter/services"]
~~~`,
		docLinks: []HttpLink{"https://docs.specter.solutions/desktop/services/"},
	}

	migrationsRootUnresolvedIssue = &Issue{
		id: MigrationsRootUnresolvedId,
		mdMsg: `
# Cannot locate the migrations!

Migrations are discovered in the ` + "`migrations/`" + ` directory next to
the file declaring the migration base type, and that module could not be
located.

## Things you can try:
- Check ` + "`discovery.migrations_dir`" + ` in your configuration
- Rebuild specter without ` + "`-trimpath`" + ``,
	}

	serviceImportFailedIssue = &Issue{
		id: ServiceImportFailedId,
		mdMsg: `
# A service failed to load!

The service package ships a ` + "`service`" + ` module but loading it failed.
Unlike a missing module, this stops discovery so that a broken service is
never silently ignored.

## Things you can try:
- Run with ` + "`--verbose`" + ` to see which module failed and why
- Remove the service directory if you no longer use it
- If you are developing the service, run its tests:
~~~
$ go test ./...
~~~`,
	}

	migrationImportFailedIssue = &Issue{
		id: MigrationImportFailedId,
		mdMsg: `
# A migration failed to load!

Every source file in the migrations directory must define a migration
module. Skipping one could leave your data directory half-migrated, so
discovery stops.

## Things you can try:
- Check that the file registers its module from ` + "`init()`" + `
- Check that the migrations package is linked into the binary`,
	}

	unknownKindIssue = &Issue{
		id: UnknownKindId,
		mdMsg: `
# Unknown plugin kind!

Only ` + "`services`" + ` and ` + "`migrations`" + ` can be discovered.

## Things you can try:
~~~
$ specter discover services
$ specter discover migrations
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration!

## Things you can try:
- Show the file in use and the effective values:
~~~
$ specter config path
$ specter config show
~~~
- Check the file for CUE syntax errors
- Remove it and start over with ` + "`specter config init`",
	}

	assetsNotFoundIssue = &Issue{
		id: AssetsNotFoundId,
		mdMsg: `
# Static assets not found!

## Things you can try:
- When running a bundled build, set ` + "`SPECTER_BUNDLE_ROOT`" + ` to the
  directory the bundle was unpacked to
- When running from source, unset ` + "`SPECTER_BUNDLED`",
	}

	issues = map[Id]*Issue{
		servicesRootUnresolvedIssue.Id():   servicesRootUnresolvedIssue,
		migrationsRootUnresolvedIssue.Id(): migrationsRootUnresolvedIssue,
		serviceImportFailedIssue.Id():      serviceImportFailedIssue,
		migrationImportFailedIssue.Id():    migrationImportFailedIssue,
		unknownKindIssue.Id():              unknownKindIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		assetsNotFoundIssue.Id():           assetsNotFoundIssue,
	}
)

// Values returns every issue, ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

// Get returns the issue with the given id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
