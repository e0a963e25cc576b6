package config_test

import (
	"pagepilot/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config Loading", func() {

	Describe("Load", func() {
		It("routes to LoadFile for a file path", func() {
			_, f := writeFixture("vars.hcl", `variable "x" { default = "val" }`)
			cfg, err := config.Load(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Variables).To(HaveLen(1))
			Expect(cfg.Variables[0].Name).To(Equal("x"))
		})

		It("routes to LoadDir for a directory path", func() {
			dir := writeFixtures(map[string]string{
				"variables.hcl": `variable "a" { default = "1" }`,
				"models.hcl":    minimalVarsHCL() + minimalModelHCL(),
			})
			cfg, err := config.Load(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(cfg.Variables)).To(BeNumerically(">=", 1))
			Expect(cfg.Models).To(HaveLen(1))
		})

		It("returns error for nonexistent path", func() {
			_, err := config.Load("/nonexistent/path/config.hcl")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadFile", func() {
		It("parses a single HCL file with every block type", func() {
			hcl := minimalVarsHCL() + minimalModelHCL() + minimalPersonaHCL() + minimalDriverHCL()
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Variables).To(HaveLen(1))
			Expect(cfg.Models).To(HaveLen(1))
			Expect(cfg.Personas).To(HaveLen(2))
			Expect(cfg.Driver).NotTo(BeNil())
		})

		It("resolves vars references into later blocks", func() {
			hcl := minimalVarsHCL() + minimalModelHCL()
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Models[0].APIKey).To(Equal("test-key-123"))
		})

		It("returns parse error for invalid HCL syntax", func() {
			_, f := writeFixture("bad.hcl", `model { missing label and brace`)
			_, err := config.LoadFile(f)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a second driver block", func() {
			hcl := minimalDriverHCL() + `
driver {
  backend = "rod"
}
`
			_, f := writeFixture("config.hcl", hcl)
			_, err := config.LoadFile(f)
			Expect(err).To(MatchError(ContainSubstring("more than one driver block")))
		})

		It("preserves persona block order", func() {
			hcl := `
persona "form_filler" {
  role     = "form_filler"
  keywords = ["type"]
}

persona "navigator" {
  role     = "navigator"
  keywords = ["open"]
}

persona "generic" {
  role = "generic"
}
`
			_, f := writeFixture("personas.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Personas[0].Name).To(Equal("form_filler"))
			Expect(cfg.Personas[1].Name).To(Equal("navigator"))
			Expect(cfg.Personas[2].Name).To(Equal("generic"))
		})
	})

	Describe("LoadAndValidate", func() {
		It("returns the config when everything checks out", func() {
			hcl := minimalVarsHCL() + minimalModelHCL() + minimalDriverHCL()
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadAndValidate(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Models).To(HaveLen(1))
		})

		It("surfaces validation failures", func() {
			hcl := `
model "bad" {
  provider = "cohere"
  model    = "command-r"
}
`
			_, f := writeFixture("config.hcl", hcl)
			_, err := config.LoadAndValidate(f)
			Expect(err).To(MatchError(ContainSubstring("not supported")))
		})
	})
})
