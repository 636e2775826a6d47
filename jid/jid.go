// Copyright 2014 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package jid

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/secure/precis"
)

// ErrInvalid is wrapped by every error returned when a JID cannot be parsed or
// composed.
var ErrInvalid = errors.New("jid: invalid JID")

func invalid(format string, v ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, v...)...)
}

// JID represents an XMPP address (Jabber ID) comprising a localpart,
// domainpart, and resourcepart. All parts of a JID are guaranteed to be valid
// UTF-8 and will be represented in their canonical form which gives comparison
// the greatest chance of succeeding.
//
// The zero value is an empty JID that is not valid on the wire.
type JID struct {
	locallen  int
	domainlen int
	data      string
}

// Parts holds the unprepared components of an address.
type Parts struct {
	Local    string
	Domain   string
	Resource string
}

// Room is the interpretation of an address as a multi-user chat occupant:
// the localpart names the room, the domainpart the chat service and the
// resourcepart the occupant's nickname.
type Room struct {
	Room   string
	Server string
	Nick   string
}

// Parse constructs a new JID from the given string representation.
func Parse(s string) (JID, error) {
	if s == "" {
		return JID{}, invalid("empty address")
	}
	localpart, domainpart, resourcepart, err := SplitString(s)
	if err != nil {
		return JID{}, err
	}
	return New(localpart, domainpart, resourcepart)
}

// MustParse is like Parse but panics if the JID cannot be parsed.
// It simplifies safe initialization of JIDs from known-good constant strings.
func MustParse(s string) JID {
	j, err := Parse(s)
	if err != nil {
		if strconv.CanBackquote(s) {
			s = "`" + s + "`"
		} else {
			s = strconv.Quote(s)
		}
		panic(`jid: Parse(` + s + `): ` + err.Error())
	}
	return j
}

// FromParts constructs a JID from its components.
func FromParts(p Parts) (JID, error) {
	return New(p.Local, p.Domain, p.Resource)
}

// New constructs a new JID from the given localpart, domainpart, and
// resourcepart.
func New(localpart, domainpart, resourcepart string) (JID, error) {
	// Ensure that parts are valid UTF-8 (and short circuit the rest of the
	// process if they're not). We'll check the domainpart after performing
	// the IDNA ToUnicode operation.
	if !utf8.ValidString(localpart) || !utf8.ValidString(resourcepart) {
		return JID{}, invalid("address contains invalid UTF-8")
	}

	// RFC 7622 §3.2.1.  Preparation
	//
	//    An entity that prepares a string for inclusion in an XMPP domainpart
	//    slot MUST ensure that the string consists only of Unicode code points
	//    that are allowed in NR-LDH labels or U-labels as defined in
	//    [RFC5890].  This implies that the string MUST NOT include A-labels as
	//    defined in [RFC5890]; each A-label MUST be converted to a U-label
	//    during preparation of a string for inclusion in a domainpart slot.
	domainpart, err := idna.ToUnicode(domainpart)
	if err != nil {
		return JID{}, invalid("%v", err)
	}
	if !utf8.ValidString(domainpart) {
		return JID{}, invalid("domainpart contains invalid UTF-8")
	}
	domainpart = strings.ToLower(domainpart)

	var lenlocal int
	data := make([]byte, 0, len(localpart)+len(domainpart)+len(resourcepart))

	if localpart != "" {
		data, err = precis.UsernameCaseMapped.Append(data, []byte(localpart))
		if err != nil {
			return JID{}, invalid("%v", err)
		}
		lenlocal = len(data)
	}

	data = append(data, domainpart...)

	if resourcepart != "" {
		data, err = precis.OpaqueString.Append(data, []byte(resourcepart))
		if err != nil {
			return JID{}, invalid("%v", err)
		}
	}

	if err := commonChecks(data[:lenlocal], domainpart, data[lenlocal+len(domainpart):]); err != nil {
		return JID{}, err
	}

	return JID{
		locallen:  lenlocal,
		domainlen: len(domainpart),
		data:      string(data),
	}, nil
}

// WithResource returns a copy of the JID with a new resourcepart.
// This elides validation of the localpart and domainpart.
func (j JID) WithResource(resourcepart string) (JID, error) {
	bare := j.Bare()
	if resourcepart == "" {
		return bare, nil
	}
	if !utf8.ValidString(resourcepart) {
		return JID{}, invalid("address contains invalid UTF-8")
	}
	data, err := precis.OpaqueString.Append([]byte(bare.data), []byte(resourcepart))
	if err != nil {
		return JID{}, invalid("%v", err)
	}
	if len(data)-len(bare.data) > 1023 {
		return JID{}, invalid("the resourcepart must be smaller than 1024 bytes")
	}
	bare.data = string(data)
	return bare, nil
}

// Bare returns a copy of the JID without a resourcepart. This is sometimes
// called a "bare" JID.
func (j JID) Bare() JID {
	return JID{
		locallen:  j.locallen,
		domainlen: j.domainlen,
		data:      j.data[:j.domainlen+j.locallen],
	}
}

// Domain returns a copy of the JID without a resourcepart or localpart.
func (j JID) Domain() JID {
	return JID{
		domainlen: j.domainlen,
		data:      j.data[j.locallen : j.domainlen+j.locallen],
	}
}

// Localpart gets the localpart of a JID (eg "username").
func (j JID) Localpart() string {
	return j.data[:j.locallen]
}

// Domainpart gets the domainpart of a JID (eg. "example.net").
func (j JID) Domainpart() string {
	return j.data[j.locallen : j.locallen+j.domainlen]
}

// Resourcepart gets the resourcepart of a JID.
func (j JID) Resourcepart() string {
	return j.data[j.locallen+j.domainlen:]
}

// Parts returns the components of the JID.
func (j JID) Parts() Parts {
	return Parts{
		Local:    j.Localpart(),
		Domain:   j.Domainpart(),
		Resource: j.Resourcepart(),
	}
}

// MUC interprets the JID as the address of a chat room occupant.
func (j JID) MUC() Room {
	return Room{
		Room:   j.Localpart(),
		Server: j.Domainpart(),
		Nick:   j.Resourcepart(),
	}
}

// IsZero reports whether j is the zero value.
func (j JID) IsZero() bool {
	return j.data == ""
}

// Network satisfies the net.Addr interface by returning the name of the network
// ("xmpp").
func (JID) Network() string {
	return "xmpp"
}

var _ net.Addr = JID{}

// String converts a JID to its full string representation.
func (j JID) String() string {
	if j.locallen == 0 && len(j.data) == j.domainlen {
		return j.data
	}
	var b strings.Builder
	b.Grow(len(j.data) + 2)
	if j.locallen > 0 {
		b.WriteString(j.data[:j.locallen])
		b.WriteByte('@')
	}
	b.WriteString(j.data[j.locallen : j.locallen+j.domainlen])
	if rp := j.data[j.locallen+j.domainlen:]; rp != "" {
		b.WriteByte('/')
		b.WriteString(rp)
	}
	return b.String()
}

// Equal performs an octet-for-octet comparison with the given JID.
func (j JID) Equal(j2 JID) bool {
	return j.locallen == j2.locallen && j.domainlen == j2.domainlen && j.data == j2.data
}

// MarshalXMLAttr satisfies the xml.MarshalerAttr interface and marshals the JID
// as an XML attribute.
// The zero JID is not marshaled.
func (j JID) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	if j.IsZero() {
		return xml.Attr{}, nil
	}
	return xml.Attr{Name: name, Value: j.String()}, nil
}

// UnmarshalXMLAttr satisfies the xml.UnmarshalerAttr interface and unmarshals
// an XML attribute into a valid JID (or returns an error).
func (j *JID) UnmarshalXMLAttr(attr xml.Attr) error {
	if attr.Value == "" {
		return nil
	}
	jid, err := Parse(attr.Value)
	if err != nil {
		return err
	}
	*j = jid
	return nil
}

// SplitString splits out the localpart, domainpart, and resourcepart from a
// string representation of a JID. The parts are not guaranteed to be valid, and
// each part must be 1023 bytes or less.
func SplitString(s string) (localpart, domainpart, resourcepart string, err error) {
	// RFC 7622 §3.1.  Fundamentals:
	//
	//    Implementation Note: When dividing a JID into its component parts,
	//    an implementation needs to match the separator characters '@' and
	//    '/' before applying any transformation algorithms, which might
	//    decompose certain Unicode code points to the separator characters.
	//
	//    1.  Remove any portion from the first '/' character to the end of the
	//        string (if there is a '/' character present).
	if sep := strings.IndexByte(s, '/'); sep != -1 {
		if sep == len(s)-1 {
			err = invalid("the resourcepart must be larger than 0 bytes")
			return
		}
		resourcepart = s[sep+1:]
		s = s[:sep]
	}

	//    2.  Remove any portion from the beginning of the string to the first
	//        '@' character (if there is an '@' character present).
	switch sep := strings.IndexByte(s, '@'); sep {
	case -1:
		domainpart = s
	case 0:
		err = invalid("the localpart must be larger than 0 bytes")
		return
	default:
		domainpart = s[sep+1:]
		localpart = s[:sep]
	}

	// If the domainpart includes a final character considered to be a label
	// separator (dot) by [RFC1034], this character MUST be stripped from the
	// domainpart before the JID of which it is a part is used.
	domainpart = strings.TrimSuffix(domainpart, ".")
	return
}

func checkIP6String(domainpart string) error {
	// If the domainpart is a valid IPv6 address (with brackets), short circuit.
	if l := len(domainpart); l > 2 && strings.HasPrefix(domainpart, "[") &&
		strings.HasSuffix(domainpart, "]") {
		if ip := net.ParseIP(domainpart[1 : l-1]); ip == nil || ip.To4() != nil {
			return invalid("domainpart is not a valid IPv6 address")
		}
	}
	return nil
}

func commonChecks(localpart []byte, domainpart string, resourcepart []byte) error {
	if len(localpart) > 1023 {
		return invalid("the localpart must be smaller than 1024 bytes")
	}

	// RFC 7622 §3.3.1 provides a small table of characters which are still not
	// allowed in localpart's even though the IdentifierClass base class and the
	// UsernameCaseMapped profile don't forbid them; disallow them here.
	if strings.ContainsAny(string(localpart), `"&'/:<>@`) {
		return invalid("localpart contains forbidden characters")
	}

	if len(resourcepart) > 1023 {
		return invalid("the resourcepart must be smaller than 1024 bytes")
	}

	if l := len(domainpart); l < 1 || l > 1023 {
		return invalid("the domainpart must be between 1 and 1023 bytes")
	}

	return checkIP6String(domainpart)
}
