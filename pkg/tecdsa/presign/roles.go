package presign

import (
	"io"

	"github.com/keyshard/tss/pkg/tecdsa/keygen"
	"github.com/keyshard/tss/pkg/tecdsa/triples"
)

// Client and Server mirror the two named endpoints from spec §4.4's
// orchestration table. Client is designated leader for the cross term
// added when σ's masked value is finally reconstructed in sign's second
// step, matching the same designation used when the triple pipeline's
// dealer role was assigned.
type Client struct{}
type Server struct{}

func (Client) Step1(rng io.Reader, share keygen.KeygenOutput, t1, t2 *triples.TripleShare) (*State, message1, error) {
	return step1(rng, true, share, t1, t2)
}
func (Client) Step2(state *State, peer message1) (*State, message2, error) { return step2(state, peer) }
func (Client) Step3(state *State, peer message2) (*State, PresignOutput, error) {
	return step3(state, peer)
}

func (Server) Step1(rng io.Reader, share keygen.KeygenOutput, t1, t2 *triples.TripleShare) (*State, message1, error) {
	return step1(rng, false, share, t1, t2)
}
func (Server) Step2(state *State, peer message1) (*State, message2, error) { return step2(state, peer) }
func (Server) Step3(state *State, peer message2) (*State, PresignOutput, error) {
	return step3(state, peer)
}
