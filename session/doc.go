// Package session verifies the time-limited session tokens that ephemeral
// interactive components are tied to.
//
// A token names its owning user and its expiry; callers verify the token,
// then bound a component's lifetime to the session's remaining lifetime:
//
//	sess, err := verifier.Verify(tokenString)
//	if err != nil {
//	    return err
//	}
//	rec, err := mgr.CreateWithDeadline(sess.Owner, sess.ExpiresAt)
package session
