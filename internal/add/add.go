// Package add validates projects from the mod platforms and adds them to a profile.
package add

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/filters"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
)

// ModrinthAPI is the part of the Modrinth client used when adding projects.
type ModrinthAPI interface {
	GetProjects(ctx context.Context, ids []string) ([]sources.ModrinthProject, error)
}

// CurseForgeAPI is the part of the CurseForge client used when adding projects.
type CurseForgeAPI interface {
	GetMods(ctx context.Context, ids []int) ([]sources.CurseForgeMod, error)
	GetFiles(ctx context.Context, ids []int) ([]sources.CurseForgeFile, error)
}

// GitHubAPI is the part of the GitHub client used when adding projects.
type GitHubAPI interface {
	QueryRepositories(ctx context.Context, repos []sources.Repository) ([]sources.RepositoryResult, error)
}

// compatibilityKinds are the filters that can be checked against a project
// before any of its files are known.
var compatibilityKinds = []filters.Kind{
	filters.KindGameVersionStrict,
	filters.KindGameVersionMinor,
	filters.KindModLoaderAny,
	filters.KindModLoaderPrefer,
}

// Options controls how projects are added.
type Options struct {
	// PerformChecks runs the compatibility check on projects without a pin.
	PerformChecks bool
	// OverrideProfile makes Filters replace the profile's filters instead of
	// extending them. It is stored on every added mod.
	OverrideProfile bool
	// Filters are stored on every added mod.
	Filters filters.Filters
}

// Success is a project that was added to the profile.
type Success struct {
	Name       string
	Identifier config.ModIdentifier
}

// Failure is a project that could not be added.
type Failure struct {
	Name string
	Err  error
}

// Result is the outcome of a batch add. Every requested identifier ends up in
// exactly one of Successes and Failures.
type Result struct {
	Successes []Success
	Failures  []Failure
}

func (r *Result) succeed(name string, id config.ModIdentifier) {
	r.Successes = append(r.Successes, Success{Name: name, Identifier: id})
}

func (r *Result) fail(name string, err error) {
	r.Failures = append(r.Failures, Failure{Name: name, Err: err})
}

// Adder adds projects from every platform to a profile.
type Adder struct {
	modrinth   ModrinthAPI
	curseforge CurseForgeAPI
	github     GitHubAPI
	selector   *filters.Selector
}

func New(mr ModrinthAPI, cf CurseForgeAPI, gh GitHubAPI, selector *filters.Selector) *Adder {
	return &Adder{
		modrinth:   mr,
		curseforge: cf,
		github:     gh,
		selector:   selector,
	}
}

// batch holds the identifiers of one Add call split by platform, and what the
// platforms returned for them.
type batch struct {
	curseforge []config.ModIdentifier
	modrinth   []config.ModIdentifier
	github     []config.ModIdentifier
	invalid    []config.ModIdentifier

	cfMods   []sources.CurseForgeMod
	cfFiles  []sources.CurseForgeFile
	mrProjs  []sources.ModrinthProject
	ghResult []sources.RepositoryResult
}

func (b *batch) classify(ids []config.ModIdentifier) {
	for _, id := range ids {
		if id.IsPinned() && id.Platform != config.PlatformModrinth {
			if _, err := id.PinID(); err != nil {
				b.invalid = append(b.invalid, id)
				continue
			}
		}
		switch id.Platform {
		case config.PlatformCurseForge:
			b.curseforge = append(b.curseforge, id)
		case config.PlatformModrinth:
			b.modrinth = append(b.modrinth, id)
		case config.PlatformGitHub:
			b.github = append(b.github, id)
		default:
			b.invalid = append(b.invalid, id)
		}
	}
}

// fetch performs the bulk requests of every platform concurrently.
func (a *Adder) fetch(ctx context.Context, b *batch) error {
	g, ctx := errgroup.WithContext(ctx)

	if len(b.curseforge) > 0 {
		var modIDs, fileIDs []int
		for _, id := range b.curseforge {
			modIDs = append(modIDs, id.CurseForgeID)
			if id.IsPinned() {
				fileID, _ := id.PinID()
				fileIDs = append(fileIDs, fileID)
			}
		}
		g.Go(func() error {
			mods, err := a.curseforge.GetMods(ctx, modIDs)
			if err != nil {
				return fmt.Errorf("failed to get CurseForge mods: %w", err)
			}
			b.cfMods = mods
			return nil
		})
		if len(fileIDs) > 0 {
			g.Go(func() error {
				files, err := a.curseforge.GetFiles(ctx, fileIDs)
				if err != nil {
					return fmt.Errorf("failed to get CurseForge files: %w", err)
				}
				b.cfFiles = files
				return nil
			})
		}
	}

	if len(b.modrinth) > 0 {
		ids := make([]string, 0, len(b.modrinth))
		for _, id := range b.modrinth {
			ids = append(ids, id.ModrinthID)
		}
		g.Go(func() error {
			projects, err := a.modrinth.GetProjects(ctx, ids)
			if err != nil {
				return fmt.Errorf("failed to get Modrinth projects: %w", err)
			}
			b.mrProjs = projects
			return nil
		})
	}

	if len(b.github) > 0 {
		repos := make([]sources.Repository, 0, len(b.github))
		for _, id := range b.github {
			repos = append(repos, sources.Repository{Owner: id.Owner, Name: id.Repo})
		}
		g.Go(func() error {
			results, err := a.github.QueryRepositories(ctx, repos)
			if err != nil {
				return fmt.Errorf("failed to query GitHub repositories: %w", err)
			}
			b.ghResult = results
			return nil
		})
	}

	return g.Wait()
}

// Add validates ids and pushes the ones that pass onto profile. Failures of
// individual projects are reported in the result; the returned error is only
// set when a platform request fails as a whole.
func (a *Adder) Add(ctx context.Context, profile *config.Profile, ids []config.ModIdentifier, opts Options) (*Result, error) {
	var b batch
	b.classify(ids)

	if err := a.fetch(ctx, &b); err != nil {
		return nil, err
	}

	checkFilters := profile.Filters.Merge(opts.Filters, opts.OverrideProfile)
	res := &Result{}

	for _, id := range b.invalid {
		res.fail(id.String(), ErrInvalidIdentifier)
	}

	for _, id := range b.curseforge {
		if err := a.addCurseForge(ctx, profile, &b, id, checkFilters, opts, res); err != nil {
			return nil, err
		}
	}
	for _, id := range b.modrinth {
		if err := a.addModrinth(ctx, profile, &b, id, checkFilters, opts, res); err != nil {
			return nil, err
		}
	}
	for i, id := range b.github {
		if err := a.addGitHub(ctx, profile, &b, i, id, checkFilters, opts, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// check runs the selector over candidates. A selector failure is returned as
// an *IncompatibleError, unless ctx was cancelled.
func (a *Adder) check(ctx context.Context, candidates []metadata.Metadata, fs filters.Filters) error {
	if _, err := a.selector.SelectLatest(ctx, candidates, fs); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &IncompatibleError{Err: err}
	}
	return nil
}

// record adds an incompatibility to r. Any other error is returned and aborts
// the batch.
func (r *Result) record(name string, err error) error {
	var incompatible *IncompatibleError
	if !errors.As(err, &incompatible) {
		return err
	}
	r.fail(name, err)
	return nil
}

func (a *Adder) addCurseForge(ctx context.Context, profile *config.Profile, b *batch, id config.ModIdentifier,
	checkFilters filters.Filters, opts Options, res *Result) error {
	var mod *sources.CurseForgeMod
	for i := range b.cfMods {
		if b.cfMods[i].ID == id.CurseForgeID {
			mod = &b.cfMods[i]
			break
		}
	}
	if mod == nil {
		res.fail(strconv.Itoa(id.CurseForgeID), ErrDoesNotExist)
		return nil
	}

	title := strings.TrimSpace(mod.Name)
	name := fmt.Sprintf("%s (%d)", title, mod.ID)
	canonical := config.CurseForgeProject(mod.ID)
	if id.IsPinned() {
		canonical = canonical.Pinned(id.Pin)
	}

	if _, found := profile.FindMod(title, canonical); found {
		res.fail(name, ErrAlreadyAdded)
		return nil
	}
	if mod.AllowModDistribution != nil && !*mod.AllowModDistribution {
		res.fail(name, ErrDistributionDenied)
		return nil
	}
	if !strings.Contains(mod.Links.WebsiteURL, "mc-mods") {
		res.fail(name, ErrNotAMod)
		return nil
	}

	if id.IsPinned() {
		fileID, _ := id.PinID()
		found := false
		for _, f := range b.cfFiles {
			if f.ID == fileID && f.ModID == mod.ID {
				found = true
				break
			}
		}
		if !found {
			res.fail(name, ErrIncorrectVersionPin)
			return nil
		}
	} else if opts.PerformChecks {
		ui.Debug("checking compatibility", "project", name)
		if err := a.check(ctx, []metadata.Metadata{sources.CurseForgeCandidate(mod)}, checkFilters.Only(compatibilityKinds...)); err != nil {
			return res.record(name, err)
		}
	}

	profile.PushMod(title, canonical, mod.Slug, opts.OverrideProfile, opts.Filters)
	res.succeed(title, canonical)
	return nil
}

func findModrinthProject(projects []sources.ModrinthProject, idOrSlug string) *sources.ModrinthProject {
	for i := range projects {
		if projects[i].ID == idOrSlug || strings.EqualFold(projects[i].Slug, idOrSlug) {
			return &projects[i]
		}
	}
	return nil
}

func (a *Adder) addModrinth(ctx context.Context, profile *config.Profile, b *batch, id config.ModIdentifier,
	checkFilters filters.Filters, opts Options, res *Result) error {
	project := findModrinthProject(b.mrProjs, id.ModrinthID)
	if project == nil {
		res.fail(id.ModrinthID, ErrDoesNotExist)
		return nil
	}

	title := strings.TrimSpace(project.Title)
	name := fmt.Sprintf("%s (%s)", title, project.ID)
	canonical := config.ModrinthProject(project.ID)
	if id.IsPinned() {
		canonical = canonical.Pinned(id.Pin)
	}

	if _, found := profile.FindMod(title, canonical); found {
		res.fail(name, ErrAlreadyAdded)
		return nil
	}
	if project.ProjectType != "mod" {
		res.fail(name, ErrNotAMod)
		return nil
	}

	if id.IsPinned() {
		found := false
		for _, v := range project.Versions {
			if v == id.Pin {
				found = true
				break
			}
		}
		if !found {
			res.fail(name, ErrIncorrectVersionPin)
			return nil
		}
	} else if opts.PerformChecks {
		ui.Debug("checking compatibility", "project", name)
		if err := a.check(ctx, []metadata.Metadata{sources.ModrinthCandidate(project)}, checkFilters.Only(compatibilityKinds...)); err != nil {
			return res.record(name, err)
		}
	}

	profile.PushMod(title, canonical, project.Slug, opts.OverrideProfile, opts.Filters)
	res.succeed(title, canonical)
	return nil
}

func (a *Adder) addGitHub(ctx context.Context, profile *config.Profile, b *batch, i int, id config.ModIdentifier,
	checkFilters filters.Filters, opts Options, res *Result) error {
	name := id.Owner + "/" + id.Repo
	if i >= len(b.ghResult) {
		res.fail(name, ErrDoesNotExist)
		return nil
	}

	result := b.ghResult[i]
	if result.Err != nil {
		if errors.Is(result.Err, sources.ErrNotFound) {
			res.fail(name, ErrDoesNotExist)
		} else {
			res.fail(name, &GitHubError{Err: result.Err})
		}
		return nil
	}

	repo := result.Repository
	if repo.Owner == "" {
		repo = sources.Repository{Owner: id.Owner, Name: id.Repo}
	}
	name = repo.String()
	canonical := config.GitHubRepository(repo.Owner, repo.Name)
	if id.IsPinned() {
		canonical = canonical.Pinned(id.Pin)
	}

	if _, found := profile.FindMod(repo.Name, canonical); found {
		res.fail(name, ErrAlreadyAdded)
		return nil
	}

	if id.IsPinned() {
		assetID, _ := strconv.ParseInt(id.Pin, 10, 64)
		found := false
		for _, release := range result.Releases {
			for _, asset := range release.Assets {
				if asset.ID == assetID {
					found = true
				}
			}
		}
		if !found {
			res.fail(name, ErrIncorrectVersionPin)
			return nil
		}
	} else if opts.PerformChecks {
		ui.Debug("checking compatibility", "repository", name)
		candidates, _ := sources.FromGitHubReleases(result.Releases)
		if err := a.check(ctx, candidates, checkFilters); err != nil {
			return res.record(name, err)
		}
	}

	profile.PushMod(repo.Name, canonical, repo.Name, opts.OverrideProfile, opts.Filters)
	res.succeed(name, canonical)
	return nil
}
