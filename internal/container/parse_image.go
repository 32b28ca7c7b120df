// SPDX-License-Identifier: MPL-2.0

package container

import (
	"regexp"
	"strings"
)

// imageNameRegex splits an image reference into registry, image, tag and
// digest. The leading segment is a registry only if it is exactly
// "localhost", contains a DNS separator, or carries a port; otherwise it is
// part of the image path.
var imageNameRegex = regexp.MustCompile(
	`^((?P<registry>((localhost|([\w-]+(\.[\w-]+)+))(:\d+)?)|([\w-]+:\d+))/)?` +
		`(?P<image>[\w./<>-]+)(:(?P<tag>[\w.<>-]+))?(@(?P<digest>.+))?$`)

// ParseImageName splits an image reference. Engine "<none>" placeholders
// clear the image or tag individually. An empty name yields only
// OriginalName. A name that does not match the grammar is an
// *ImageNameError regardless of parsing policy.
func ParseImageName(name string) (ImageNameInfo, error) {
	info := ImageNameInfo{OriginalName: name}
	if name == "" {
		return info, nil
	}

	m := imageNameRegex.FindStringSubmatch(name)
	if m == nil {
		return info, &ImageNameError{Name: name}
	}

	info.Registry = m[imageNameRegex.SubexpIndex("registry")]
	info.Image = dropPlaceholder(m[imageNameRegex.SubexpIndex("image")])
	info.Tag = dropPlaceholder(m[imageNameRegex.SubexpIndex("tag")])
	info.Digest = m[imageNameRegex.SubexpIndex("digest")]
	return info, nil
}

func dropPlaceholder(s string) string {
	if strings.ContainsAny(s, "<>") {
		return ""
	}
	return s
}

// Reference reassembles the reference from its parts, without the digest
// when a tag is present.
func (i ImageNameInfo) Reference() string {
	if i.Image == "" {
		return ""
	}
	ref := i.Image
	if i.Registry != "" {
		ref = i.Registry + "/" + ref
	}
	switch {
	case i.Tag != "":
		ref += ":" + i.Tag
	case i.Digest != "":
		ref += "@" + i.Digest
	}
	return ref
}
