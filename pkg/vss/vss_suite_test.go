package vss_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestVSS(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "VSS Secret Sharing Suite")
}
