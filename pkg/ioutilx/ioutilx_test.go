package ioutilx_test

import (
	"os"
	"path/filepath"

	. "code.cloudfoundry.org/roled/pkg/ioutilx"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ioutilx", func() {
	var dirName string

	BeforeEach(func() {
		var err error
		dirName, err = os.MkdirTemp("", "roled-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dirName)
	})

	Describe("#OpenLogFile", func() {
		var logFilePath string

		BeforeEach(func() {
			logFilePath = filepath.Join(dirName, "audit.log")
		})

		It("creates a non-existent audit file", func() {
			file, err := OpenLogFile(logFilePath)
			Expect(err).NotTo(HaveOccurred())

			defer file.Close()

			fileInfo, err := os.Stat(logFilePath)
			Expect(err).NotTo(HaveOccurred())
			Expect(fileInfo.Mode()).To(Equal(os.FileMode(0600)))
			Expect(fileInfo.Name()).To(Equal("audit.log"))
		})

		It("appends to an existing audit file", func() {
			err := os.WriteFile(logFilePath, []byte("logline1\n"), 0600)
			Expect(err).NotTo(HaveOccurred())

			logFile, err := OpenLogFile(logFilePath)
			Expect(err).NotTo(HaveOccurred())
			_, err = logFile.Write([]byte("logline2\n"))
			Expect(err).NotTo(HaveOccurred())
			logFile.Close()

			contents, err := os.ReadFile(logFilePath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(contents)).To(Equal("logline1\nlogline2\n"))
		})

		It("returns an error when the directory does not exist", func() {
			_, err := OpenLogFile(filepath.Join(dirName, "nonexistent", "audit.log"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("#ReplaceFile", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(dirName, "state.json")
		})

		It("creates the file when none exists", func() {
			Expect(ReplaceFile(path, []byte("first"))).To(Succeed())

			contents, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(contents)).To(Equal("first"))
		})

		It("replaces prior contents completely", func() {
			Expect(ReplaceFile(path, []byte("a much longer first version"))).To(Succeed())
			Expect(ReplaceFile(path, []byte("second"))).To(Succeed())

			contents, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(contents)).To(Equal("second"))
		})

		It("leaves no temporary file behind", func() {
			Expect(ReplaceFile(path, []byte("data"))).To(Succeed())

			_, err := os.Stat(path + ".tmp")
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("preserves the prior file when the write cannot start", func() {
			Expect(ReplaceFile(path, []byte("survivor"))).To(Succeed())
			Expect(os.Chmod(dirName, 0500)).To(Succeed())
			defer os.Chmod(dirName, 0700)

			err := ReplaceFile(path, []byte("doomed"))
			Expect(err).To(HaveOccurred())

			contents, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(contents)).To(Equal("survivor"))
		})
	})
})
