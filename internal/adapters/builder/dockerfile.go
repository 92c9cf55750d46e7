package builder

import (
	"os/user"
	"path"
	"strings"

	"github.com/tracefold/launchdock/internal/core/domain"
)

// instruction is a single Dockerfile line, kept structured until render time
// so the "which lines are present" logic stays independently testable.
type instruction struct {
	keyword string
	args    string
}

// Dockerfile accumulates instructions in emission order and renders them to
// text at the end.
type Dockerfile struct {
	instructions []instruction
}

// NewDockerfile starts a Dockerfile with the mandatory FROM line.
func NewDockerfile(baseImage string) *Dockerfile {
	d := &Dockerfile{}
	return d.add("FROM", baseImage)
}

// Copy appends a COPY instruction.
func (d *Dockerfile) Copy(src, dst string) *Dockerfile {
	return d.add("COPY", src+" "+dst)
}

// Workdir appends a WORKDIR instruction.
func (d *Dockerfile) Workdir(dir string) *Dockerfile {
	return d.add("WORKDIR", dir)
}

// Env appends an ENV instruction.
func (d *Dockerfile) Env(key, value string) *Dockerfile {
	return d.add("ENV", key+"="+value)
}

func (d *Dockerfile) add(keyword, args string) *Dockerfile {
	d.instructions = append(d.instructions, instruction{keyword: keyword, args: args})
	return d
}

// Render emits the Dockerfile text, one newline-terminated line per
// instruction.
func (d *Dockerfile) Render() string {
	var b strings.Builder
	for _, ins := range d.instructions {
		b.WriteString(ins.keyword)
		b.WriteString(" ")
		b.WriteString(ins.args)
		b.WriteString("\n")
	}
	return b.String()
}

// generateDockerfile produces the Dockerfile for a launch build. Lines are
// appended in fixed order; lines whose condition does not hold are absent.
func generateDockerfile(project domain.LaunchProject, baseImage string, copyCode bool) string {
	workdir := containerWorkdir()
	d := NewDockerfile(baseImage)
	if len(project.OverrideConfig) > 0 {
		d.Copy(path.Join(domain.ProjectTarArchiveName, domain.DefaultConfigPath), workdir)
	}
	if copyCode {
		d.Copy(domain.ProjectTarArchiveName+"/", workdir)
		d.Workdir(workdir)
	}
	if project.Name != "" {
		d.Env("WANDB_NAME", project.Name)
	}
	return d.Render()
}

// containerWorkdir mirrors the host user's home path inside the image.
func containerWorkdir() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "/home/launchdock"
	}
	return path.Join("/home", u.Username)
}
