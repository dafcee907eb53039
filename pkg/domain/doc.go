/*
Package domain contains the core navigation model of pawtrail.

It defines the closed set of screens an app can show, the Dog record carried by
the detail screen, and the errors and events shared by the rest of the module.
This package is kept free of I/O; persistence lives behind the ports package.

# Key Entities

  - Screen: a navigation destination, either Home or Detail.
  - ScreenTag: the stable discriminator written to checkpoints ("HOME", "DETAIL").
  - Dog: the payload of the Detail screen, serialized into a nested bundle.
  - MalformedStateError: the single error kind raised when a checkpoint cannot be decoded.
*/
package domain
