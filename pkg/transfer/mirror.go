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

package transfer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// excludedNames are never transferred and never deleted remotely.
var excludedNames = []string{".git", ".gitmodules", ".gitattributes"}

// Client mirrors a local source tree to a directory on the remote host.
type Client struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

// NewClient dials the host and opens an sftp session authenticated with the
// private key file.
func NewClient(host string, port int, user, keyPath string) (*Client, error) {
	privateKeyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to read SSH key %s", keyPath)
	}

	key, err := ssh.ParsePrivateKey(privateKeyBytes)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to parse SSH key %s", keyPath)
	}

	clientConfig := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(key)},
		Timeout:         30 * time.Second,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to connect to %s", addr)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, errors.WithStack(err)
	}

	return &Client{sshClient: sshClient, sftpClient: sftpClient}, nil
}

// Close shuts both sessions down.
func (c *Client) Close() {
	if c.sftpClient != nil {
		_ = c.sftpClient.Close()
	}
	if c.sshClient != nil {
		_ = c.sshClient.Close()
	}
}

// MirrorTree makes remoteRoot an exact copy of localRoot: uploads every
// local file, then removes remote entries with no local counterpart.
// Version control metadata is neither uploaded nor deleted.
func (c *Client) MirrorTree(ctx context.Context, localRoot, remoteRoot string) error {
	localFiles, localDirs, err := collectLocal(localRoot)
	if err != nil {
		return err
	}

	if err := c.sftpClient.MkdirAll(remoteRoot); err != nil {
		return errors.WithMessagef(err, "failed to create remote dir %s", remoteRoot)
	}
	for _, rel := range localDirs {
		if err := c.sftpClient.MkdirAll(path.Join(remoteRoot, rel)); err != nil {
			return errors.WithMessagef(err, "failed to create remote dir %s", rel)
		}
	}

	for rel, mode := range localFiles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := c.upload(filepath.Join(localRoot, filepath.FromSlash(rel)), path.Join(remoteRoot, rel), mode); err != nil {
			return err
		}
	}

	remoteFiles, remoteDirs, err := c.collectRemote(remoteRoot)
	if err != nil {
		return err
	}
	for _, rel := range Extraneous(localFiles, remoteFiles) {
		zap.L().Debug("remove extraneous remote file", zap.String("path", rel))
		if err := c.sftpClient.Remove(path.Join(remoteRoot, rel)); err != nil {
			return errors.WithMessagef(err, "failed to remove remote file %s", rel)
		}
	}
	dirSet := make(map[string]fs.FileMode, len(localDirs))
	for _, rel := range localDirs {
		dirSet[rel] = 0
	}
	for _, rel := range Extraneous(dirSet, remoteDirs) {
		if err := c.sftpClient.RemoveDirectory(path.Join(remoteRoot, rel)); err != nil {
			return errors.WithMessagef(err, "failed to remove remote dir %s", rel)
		}
	}
	return nil
}

func (c *Client) upload(localPath, remotePath string, mode fs.FileMode) error {
	srcFile, err := os.Open(localPath)
	if err != nil {
		return errors.WithMessagef(err, "failed to open %s", localPath)
	}
	defer srcFile.Close()

	dstFile, err := c.sftpClient.Create(remotePath)
	if err != nil {
		return errors.WithMessagef(err, "failed to create remote file %s", remotePath)
	}
	defer dstFile.Close()

	if _, err = dstFile.ReadFrom(srcFile); err != nil {
		return errors.WithMessagef(err, "failed to write remote file %s", remotePath)
	}
	// carry the exec bit over for entrypoint scripts
	return c.sftpClient.Chmod(remotePath, mode.Perm())
}

func (c *Client) collectRemote(remoteRoot string) (files []string, dirs []string, err error) {
	walker := c.sftpClient.Walk(remoteRoot)
	for walker.Step() {
		if werr := walker.Err(); werr != nil {
			return nil, nil, errors.WithMessagef(werr, "failed to list remote dir %s", remoteRoot)
		}
		rel := relSlash(remoteRoot, walker.Path())
		if rel == "." || rel == "" || IsExcluded(rel) {
			continue
		}
		if walker.Stat().IsDir() {
			dirs = append(dirs, rel)
		} else {
			files = append(files, rel)
		}
	}
	return files, dirs, nil
}

func collectLocal(localRoot string) (files map[string]fs.FileMode, dirs []string, err error) {
	files = make(map[string]fs.FileMode)
	err = filepath.WalkDir(localRoot, func(p string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		rel, rerr := filepath.Rel(localRoot, p)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if IsExcluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, rel)
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return ierr
		}
		files[rel] = info.Mode()
		return nil
	})
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "failed to walk source tree %s", localRoot)
	}
	return files, dirs, nil
}

// IsExcluded reports whether a slash-separated relative path is version
// control metadata.
func IsExcluded(rel string) bool {
	first := rel
	if i := strings.Index(rel, "/"); i >= 0 {
		first = rel[:i]
	}
	for _, name := range excludedNames {
		if first == name {
			return true
		}
	}
	return false
}

// Extraneous returns the remote paths absent from the local set, deepest
// first so directories empty out before their removal.
func Extraneous(local map[string]fs.FileMode, remote []string) []string {
	var out []string
	for _, rel := range remote {
		if _, ok := local[rel]; !ok {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Count(out[i], "/") > strings.Count(out[j], "/")
	})
	return out
}

func relSlash(root, p string) string {
	root = path.Clean(root)
	p = path.Clean(p)
	if p == root {
		return "."
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
}
