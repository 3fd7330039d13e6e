package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jroosing/zonegit/internal/gitrepo"
)

// runInstallHook links the running executable into .git/hooks/pre-commit.
// A symlink keeps the hook tracking upgrades of the binary; on filesystems
// without symlinks the binary is copied instead.
func runInstallHook(ctx context.Context, cli *cliFlags, args []string) int {
	fs := flag.NewFlagSet("install-hook", flag.ContinueOnError)
	force := fs.Bool("force", false, "Replace an existing pre-commit hook")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	dir := cli.repoDir
	if dir == "" {
		dir = "."
	}
	repo, err := gitrepo.Open(ctx, dir, nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitUsage
	}

	self, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: locate executable: %v\n", err)
		return exitFail
	}
	self, err = filepath.EvalSymlinks(self)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: resolve executable: %v\n", err)
		return exitFail
	}

	hooksDir := filepath.Join(repo.Root(), ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitFail
	}
	hook := filepath.Join(hooksDir, "pre-commit")

	if existing, err := os.Lstat(hook); err == nil {
		if target, lerr := os.Readlink(hook); lerr == nil && target == self {
			fmt.Printf("pre-commit hook already installed at %s\n", hook)
			return exitOK
		}
		if !*force {
			fmt.Fprintf(os.Stderr, "zonegit: %s exists (%s); use -force to replace it\n",
				hook, existing.Mode())
			return exitFail
		}
		if err := os.Remove(hook); err != nil {
			fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
			return exitFail
		}
	}

	if err := os.Symlink(self, hook); err != nil {
		// Windows and some CI filesystems refuse symlinks.
		if err := copyExecutable(self, hook); err != nil {
			fmt.Fprintf(os.Stderr, "zonegit: install hook: %v\n", err)
			return exitFail
		}
	}

	fmt.Printf("installed pre-commit hook: %s -> %s\n", hook, self)
	return exitOK
}

func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
