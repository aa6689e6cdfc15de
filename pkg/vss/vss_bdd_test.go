package vss_test

import (
	"crypto/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/keyshard/tss/pkg/ed25519group"
	"github.com/keyshard/tss/pkg/party"
	"github.com/keyshard/tss/pkg/vss"
)

func sampleEd() (ed25519group.Scalar, error) { return ed25519group.RandomScalar(rand.Reader) }

func edIDs(slots ...uint32) map[party.ID]ed25519group.Scalar {
	out := map[party.ID]ed25519group.Scalar{}
	for _, n := range slots {
		id, err := ed25519group.IdentifierFromUint32(n)
		Expect(err).NotTo(HaveOccurred())
		out[id.PartyID()] = id.Scalar
	}
	return out
}

var _ = Describe("Shamir secret sharing over Ed25519", func() {
	var (
		secret   ed25519group.Scalar
		packages map[party.ID]*vss.KeyPackage[ed25519group.Scalar, ed25519group.Point]
		pub      *vss.PublicKeyPackage[ed25519group.Scalar, ed25519group.Point]
	)

	BeforeEach(func() {
		var err error
		secret, err = sampleEd()
		Expect(err).NotTo(HaveOccurred())
		packages, pub, err = vss.Split[ed25519group.Scalar, ed25519group.Point](secret, edIDs(1, 2, 3), 2, sampleEd)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reconstructs the secret from any threshold-sized subset", func() {
		subset := map[party.ID]*vss.KeyPackage[ed25519group.Scalar, ed25519group.Point]{}
		count := 0
		for id, kp := range packages {
			if count == 2 {
				break
			}
			subset[id] = kp
			count++
		}
		recombined, err := vss.Combine[ed25519group.Scalar, ed25519group.Point](
			ed25519group.Zero(), ed25519group.ScalarFromUint32(1), subset,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(recombined.Equal(secret)).To(BeTrue())
	})

	It("extends the share set to a new participant without disturbing the others", func() {
		newID, err := ed25519group.IdentifierFromUint32(4)
		Expect(err).NotTo(HaveOccurred())
		_, extendedPub, err := vss.Extend[ed25519group.Scalar, ed25519group.Point](
			ed25519group.ScalarFromUint32(1), packages,
			map[party.ID]ed25519group.Scalar{newID.PartyID(): newID.Scalar}, pub,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(extendedPub.VerifyingShares).To(HaveLen(4))
		for id, share := range pub.VerifyingShares {
			Expect(extendedPub.VerifyingShares[id].Equal(share)).To(BeTrue())
		}
	})

	It("preserves the group verifying key across a reshare to a new committee", func() {
		newIDs := edIDs(10, 11, 12)
		_, newPub, _, err := vss.Reshare[ed25519group.Scalar, ed25519group.Point](
			ed25519group.Zero(), ed25519group.ScalarFromUint32(1), packages, newIDs, 2, sampleEd,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(newPub.VerifyingKey.Equal(pub.VerifyingKey)).To(BeTrue())
	})

	It("rejects a split with fewer identifiers than the threshold", func() {
		_, _, err := vss.Split[ed25519group.Scalar, ed25519group.Point](secret, edIDs(1), 2, sampleEd)
		Expect(err).To(HaveOccurred())
	})
})
