// Copyright 2024 The shipway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stager

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/pkg/errors"
	"github.com/shipway/shipway/pkg/config"
	"github.com/shipway/shipway/util"
	"go.uber.org/zap"
)

// tokenUser is the username paired with a PAT for https remotes. GitHub and
// Gitea both accept it for any token kind.
const tokenUser = "x-access-token"

// Stage clones or updates the working copy of the configured repository and
// detects the deploy mode from its root. The returned path is used verbatim
// as the transfer source.
//
// The access token is passed to the transport per call and is never written
// into the repository's stored remote configuration.
func Stage(ctx context.Context, cfg *config.DeploymentConfig) (string, util.DeployMode, error) {
	dest := filepath.Join(util.SrcDir(), repoSlug(cfg.RepoURL))

	auth, err := authFor(cfg)
	if err != nil {
		return "", util.ModeUnknown, err
	}

	if _, statErr := os.Stat(filepath.Join(dest, ".git")); statErr == nil {
		if err := update(ctx, dest, cfg, auth); err != nil {
			// a broken working copy is not worth repairing, reclone
			zap.L().Warn("failed to update working copy, recloning",
				zap.String("path", dest), zap.Error(err))
			if err := os.RemoveAll(dest); err != nil {
				return "", util.ModeUnknown, errors.WithMessagef(err, "failed to remove stale working copy %s", dest)
			}
			if err := clone(ctx, dest, cfg, auth); err != nil {
				return "", util.ModeUnknown, err
			}
		}
	} else {
		if err := clone(ctx, dest, cfg, auth); err != nil {
			return "", util.ModeUnknown, err
		}
	}

	if err := ScrubRemote(dest); err != nil {
		return "", util.ModeUnknown, err
	}

	mode, err := DetectMode(dest)
	if err != nil {
		return "", util.ModeUnknown, err
	}
	zap.L().Info("staged source",
		zap.String("repo", config.RedactURL(cfg.RepoURL)),
		zap.String("branch", cfg.Branch),
		zap.String("path", dest),
		zap.String("mode", mode.String()))
	return dest, mode, nil
}

func clone(ctx context.Context, dest string, cfg *config.DeploymentConfig, auth transport.AuthMethod) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:           cfg.RepoURL,
		Auth:          auth,
		ReferenceName: plumbing.NewBranchReferenceName(cfg.Branch),
		SingleBranch:  true,
	})
	if err != nil {
		return errors.WithMessagef(err, "failed to clone %s", config.RedactURL(cfg.RepoURL))
	}
	return nil
}

func update(ctx context.Context, dest string, cfg *config.DeploymentConfig, auth transport.AuthMethod) error {
	repo, err := git.PlainOpen(dest)
	if err != nil {
		return errors.WithStack(err)
	}

	refSpec := gitconfig.RefSpec("+refs/heads/" + cfg.Branch + ":refs/remotes/origin/" + cfg.Branch)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       auth,
		Force:      true,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return errors.WithMessagef(err, "failed to fetch %s", cfg.Branch)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", cfg.Branch), true)
	if err != nil {
		return errors.WithMessagef(err, "branch %s not found on origin", cfg.Branch)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return errors.WithStack(err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(cfg.Branch),
		Force:  true,
	}); err != nil {
		return errors.WithMessagef(err, "failed to checkout %s", cfg.Branch)
	}
	return errors.WithStack(wt.Reset(&git.ResetOptions{
		Commit: remoteRef.Hash(),
		Mode:   git.HardReset,
	}))
}

func authFor(cfg *config.DeploymentConfig) (transport.AuthMethod, error) {
	if strings.HasPrefix(cfg.RepoURL, "https://") {
		return &githttp.BasicAuth{Username: tokenUser, Password: cfg.Token}, nil
	}
	keys, err := gitssh.NewPublicKeysFromFile("git", cfg.KeyPath(), "")
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load SSH key %s", cfg.KeyPath())
	}
	return keys, nil
}

// ScrubRemote rewrites every remote URL of the working copy, dropping any
// userinfo, so the durable .git/config can never hold a credential.
func ScrubRemote(dest string) error {
	repo, err := git.PlainOpen(dest)
	if err != nil {
		return errors.WithStack(err)
	}
	rcfg, err := repo.Config()
	if err != nil {
		return errors.WithStack(err)
	}
	changed := false
	for _, remote := range rcfg.Remotes {
		for i, raw := range remote.URLs {
			clean := stripUserinfo(raw)
			if clean != raw {
				remote.URLs[i] = clean
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return errors.WithStack(repo.SetConfig(rcfg))
}

func stripUserinfo(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = nil
	return u.String()
}

// repoSlug derives a directory name from the repository URL.
func repoSlug(raw string) string {
	s := strings.TrimSuffix(raw, ".git")
	s = strings.TrimSuffix(s, "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		s = "repo"
	}
	return s
}
