package keygen

import "io"

// Client and Server mirror the two named endpoints from spec §4.4's
// orchestration table (cli_keygen / srv_keygen in the original
// implementation). The underlying five-step protocol is symmetric, so both
// simply forward to the shared Step functions; the separate names exist so
// callers (and generated bindings) address "the client's step 3" and "the
// server's step 3" without ambiguity.
type Client struct{}
type Server struct{}

func (Client) Step1(rng io.Reader) (*State, CommitMessage, error) { return Step1(rng) }
func (Client) Step2(state *State) (*State, OpenMessage, error)    { return Step2(state) }
func (Client) Step3(state *State, peerCommit CommitMessage) (*State, error) {
	return Step3(state, peerCommit)
}
func (Client) Step4(state *State, peerOpen OpenMessage) (*State, ConfirmMessage, error) {
	return Step4(state, peerOpen)
}
func (Client) Step5(state *State, peerConfirm ConfirmMessage) (KeygenOutput, error) {
	return Step5(state, peerConfirm)
}

func (Server) Step1(rng io.Reader) (*State, CommitMessage, error) { return Step1(rng) }
func (Server) Step2(state *State) (*State, OpenMessage, error)    { return Step2(state) }
func (Server) Step3(state *State, peerCommit CommitMessage) (*State, error) {
	return Step3(state, peerCommit)
}
func (Server) Step4(state *State, peerOpen OpenMessage) (*State, ConfirmMessage, error) {
	return Step4(state, peerOpen)
}
func (Server) Step5(state *State, peerConfirm ConfirmMessage) (KeygenOutput, error) {
	return Step5(state, peerConfirm)
}
